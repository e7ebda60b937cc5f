package main

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bgrewell/boot-kit"
	"github.com/bgrewell/boot-kit/pkg/detect"
	"github.com/bgrewell/boot-kit/pkg/logging"
	"github.com/bgrewell/boot-kit/pkg/option"
	"github.com/bgrewell/usage"
)

func generateFileMD5(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	hashBytes := hash.Sum(nil)
	return fmt.Sprintf("%x", hashBytes), nil
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("open_and_inspect"),
		usage.WithApplicationDescription("open_and_inspect is a functional testing application that is part of boot-kit and is designed to verify that detection works against real disk images and never modifies them."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	input := u.AddArgument(1, "input", "The disk image to run the tests against", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if input == nil || *input == "" {
		u.PrintError(fmt.Errorf("location of the input disk image <input> must be provided"))
		os.Exit(1)
	}

	inputHash, err := generateFileMD5(*input)
	if err != nil {
		fmt.Printf("Failed to generate MD5 hash for input file: %s\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_TRACE, true))
	img, err := bootkit.Open(*input, option.WithLogger(logger))
	if err != nil && !errors.Is(err, detect.ErrUnsupported) {
		fmt.Printf("Failed to open disk image: %s\n", err)
		os.Exit(1)
	}

	detected, _ := img.Format().MarshalText()
	if errors.Is(err, detect.ErrUnsupported) {
		detected = []byte("none")
	}
	if err := img.Layout().Print(os.Stdout, true, true); err != nil {
		fmt.Printf("Failed to print layout: %s\n", err)
		os.Exit(1)
	}

	outputHash, err := generateFileMD5(*input)
	if err != nil {
		fmt.Printf("Failed to generate MD5 hash for input file after inspection: %s\n", err)
		os.Exit(1)
	}

	if inputHash != outputHash {
		fmt.Printf("Disk image changed during inspection:\n  Before: %s\n  After:  %s\n", inputHash, outputHash)
		os.Exit(1)
	}

	fmt.Printf("%s: %s, image unchanged\n", *input, detected)
}
