package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ContainsNonASCIIPrintable returns true if the string has any
// characters outside ASCII [32..126], i.e., not a standard printable.
func ContainsNonASCIIPrintable(s string) bool {
	for _, r := range s {
		if r < 32 || r > 126 {
			return true
		}
	}
	return false
}

// ParseFields splits a rendered listing into its `name: value` lines. Lines without a separator, such as the
// header and the partition ordinals, are skipped. A name that repeats keeps its first value.
func ParseFields(rendered string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(rendered, "\n") {
		name, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		if _, seen := fields[name]; !seen {
			fields[name] = value
		}
	}
	return fields
}

// Validate compares a rendered listing against ground-truth fields. Every line must be printable ASCII and every
// ground-truth field must be present with the expected value; fields not in the ground truth are ignored.
func Validate(rendered string, groundTruth GroundTruthEntry) error {
	lines := strings.Split(strings.TrimSuffix(rendered, "\n"), "\n")
	if len(lines) == 0 || lines[0] != groundTruth.Header {
		return fmt.Errorf("expected header %q, got %q", groundTruth.Header, lines[0])
	}
	for _, line := range lines {
		if ContainsNonASCIIPrintable(line) {
			return fmt.Errorf("non-ASCII printable characters in line: %q", line)
		}
	}

	fields := ParseFields(rendered)
	var problems []string
	for name, want := range groundTruth.Fields {
		got, found := fields[name]
		switch {
		case !found:
			problems = append(problems, fmt.Sprintf("missing %q", name))
		case got != want:
			problems = append(problems, fmt.Sprintf("%q: expected %q, got %q", name, want, got))
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%s does not match ground truth: %s", groundTruth.Name, strings.Join(problems, "; "))
	}
	return nil
}

// GroundTruthEntry is the expected rendering of one fixture image.
type GroundTruthEntry struct {
	Name   string            `json:"name"`
	Header string            `json:"header"`
	Fields map[string]string `json:"fields"`
}

// LoadGroundTruth reads the JSON from a file and unmarshals it into a slice.
func LoadGroundTruth(filePath string) ([]GroundTruthEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var entries []GroundTruthEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return entries, nil
}
