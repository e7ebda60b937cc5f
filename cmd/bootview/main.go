package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bgrewell/boot-kit"
	"github.com/bgrewell/boot-kit/pkg/logging"
	"github.com/bgrewell/boot-kit/pkg/option"
	"github.com/bgrewell/boot-kit/pkg/report"
	"github.com/bgrewell/usage"
	"github.com/fatih/color"
	"github.com/theckman/yacspin"
)

var (
	version = "dev"
)

// config carries the parsed command line into run.
type config struct {
	path       string
	verbose    bool
	trace      bool
	jsonOut    bool
	yamlOut    bool
	layout     bool
	hexOffsets bool
	useColor   bool
	progress   bool
}

func (c config) validate() error {
	if c.path == "" {
		return fmt.Errorf("location of the disk image <image-path> must be provided")
	}
	if c.jsonOut && c.yamlOut {
		return fmt.Errorf("--json and --yaml cannot be combined")
	}
	return nil
}

func main() {
	u := usage.NewUsage()
	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Enable verbose (debug) logging on stderr", "optional", nil)
	trace := u.AddBooleanOption("t", "trace", false, "Enable trace logging of every decoded header", "optional", nil)
	jsonOut := u.AddBooleanOption("j", "json", false, "Print the detected structure as JSON", "output", nil)
	yamlOut := u.AddBooleanOption("y", "yaml", false, "Print the detected structure as YAML", "output", nil)
	layout := u.AddBooleanOption("l", "layout", false, "Print the map of probed regions", "output", nil)
	hexOffsets := u.AddBooleanOption("x", "hex", false, "Print layout offsets in hexadecimal", "output", nil)
	useColor := u.AddBooleanOption("c", "color", false, "Use colored output", "output", nil)
	progress := u.AddBooleanOption("p", "progress", false, "Show probe progress on stderr when it is a terminal", "optional", nil)
	path := u.AddArgument(1, "image-path", "Path to the disk image to inspect", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		fmt.Println("bootview " + version)
		u.PrintUsage()
		os.Exit(0)
	}

	cfg := config{
		verbose:    *verbose,
		trace:      *trace,
		jsonOut:    *jsonOut,
		yamlOut:    *yamlOut,
		layout:     *layout,
		hexOffsets: *hexOffsets,
		useColor:   *useColor,
		progress:   *progress,
	}
	if path != nil {
		cfg.path = *path
	}

	// Invocation errors get the usage block, everything after this point a single line.
	if err := cfg.validate(); err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	os.Exit(run(cfg, os.Stdout, os.Stderr))
}

// run inspects the image named by cfg and returns the process exit code. Failures are reported on stderr as a
// single line.
func run(cfg config, stdout, stderr io.Writer) int {
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if cfg.useColor {
		color.NoColor = false
	}

	logger := logging.DefaultLogger()
	switch {
	case cfg.trace:
		logger = logging.NewLogger(logging.NewSimpleLogger(stderr, logging.LEVEL_TRACE, cfg.useColor))
	case cfg.verbose:
		logger = logging.NewLogger(logging.NewSimpleLogger(stderr, logging.LEVEL_DEBUG, cfg.useColor))
	}

	opts := []option.OpenOption{option.WithLogger(logger)}

	var spinner *yacspin.Spinner
	if cfg.progress && stderr == os.Stderr && stderrIsTerminal() {
		var err error
		spinner, err = InitializeSpinner()
		if err != nil {
			fmt.Fprintf(stderr, "Failed to initialize spinner: %v\n", err)
			fmt.Fprintf(stderr, "Progress updates will be disabled.\n")
		} else {
			opts = append(opts, option.WithProbeProgress(CreateProgressCallback(spinner)))
		}
	}

	img, err := bootkit.Open(cfg.path, opts...)
	structure := ""
	if img != nil {
		structure = img.Format().Name()
	}
	StopSpinner(spinner, cfg.path, structure, err)

	if cfg.layout && img != nil {
		if perr := img.Layout().Print(stdout, cfg.useColor, cfg.hexOffsets); perr != nil {
			fmt.Fprintln(stderr, perr)
			return 1
		}
	}

	// ErrUnsupported included: the layout above is still printed, then the one-line diagnostic.
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	format := report.FORMAT_TEXT
	switch {
	case cfg.jsonOut:
		format = report.FORMAT_JSON
	case cfg.yamlOut:
		format = report.FORMAT_YAML
	}

	if err := report.Write(stdout, img.Record, format, cfg.useColor); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
