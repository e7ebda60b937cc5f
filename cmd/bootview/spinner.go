package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bgrewell/boot-kit/pkg/option"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

// truncateString truncates the input string to the specified max length.
// If truncation occurs, it prepends "..." to indicate the string has been shortened.
func truncateString(input string, maxLength int) string {
	if len(input) <= maxLength {
		return input
	}
	if maxLength <= 3 {
		return input[len(input)-maxLength:]
	}
	return "..." + input[len(input)-(maxLength-3):]
}

// terminalWidth returns the width of the terminal attached to stderr, or 80.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// stderrIsTerminal reports whether the spinner has somewhere to draw.
func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// CreateProgressCallback returns a ProbeProgressCallback that updates the spinner's message.
func CreateProgressCallback(spinner *yacspin.Spinner) option.ProbeProgressCallback {
	return func(probeName string, offset int64, verified bool, currentProbe int, totalProbes int) {
		outcome := "no match"
		if verified {
			outcome = "verified"
		}
		message := fmt.Sprintf(" [%d/%d] %s @ %d - %s", currentProbe, totalProbes, probeName, offset, outcome)
		spinner.Message(truncateString(message, terminalWidth()-6))
	}
}

// InitializeSpinner sets up and starts the yacspin spinner on stderr.
func InitializeSpinner() (*yacspin.Spinner, error) {
	settings := yacspin.Config{
		Writer:            os.Stderr,
		Frequency:         100 * time.Millisecond,
		ShowCursor:        false,
		SpinnerAtEnd:      false,
		CharSet:           yacspin.CharSets[14],
		Suffix:            " ",
		Message:           "probing",
		Colors:            []string{"fgHiCyan"},
		StopColors:        []string{"fgHiGreen"},
		StopFailColors:    []string{"fgHiRed"},
		StopFailCharacter: "✗",
		StopCharacter:     "✓",
	}

	spinner, err := yacspin.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create spinner: %w", err)
	}

	if err := spinner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start spinner: %w", err)
	}

	return spinner, nil
}

// StopSpinner stops the spinner with a message describing the outcome. A nil spinner is ignored.
func StopSpinner(spinner *yacspin.Spinner, path string, structure string, err error) {
	if spinner == nil {
		return
	}
	name := truncateString(path, terminalWidth()/2)
	if err != nil {
		spinner.StopFailMessage(fmt.Sprintf(" %s: no boot structure", name))
		_ = spinner.StopFail()
		return
	}
	spinner.StopMessage(fmt.Sprintf(" %s: %s", name, structure))
	_ = spinner.Stop()
}
