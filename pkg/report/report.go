package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bgrewell/boot-kit/pkg/detect"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	FORMAT_TEXT Format = iota
	FORMAT_JSON
	FORMAT_YAML
)

var headerColor = color.New(color.FgCyan, color.Bold)

// Write renders rec to w. Text output is the record's own listing; with useColor the header line is highlighted.
func Write(w io.Writer, rec detect.Record, format Format, useColor bool) error {
	switch format {
	case FORMAT_TEXT:
		return writeText(w, rec, useColor)
	case FORMAT_JSON:
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode record as json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FORMAT_YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record as yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format: %d", format)
	}
}

func writeText(w io.Writer, rec detect.Record, useColor bool) error {
	if !useColor {
		return rec.Render(w)
	}

	var buf bytes.Buffer
	if err := rec.Render(&buf); err != nil {
		return err
	}
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasSuffix(line, "!") {
			line = headerColor.Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
