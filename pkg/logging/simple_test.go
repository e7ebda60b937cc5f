package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/go-logr/logr"
)

// Test that a nil writer falls back to stderr.
func TestDefaultWriter(t *testing.T) {
	s := NewSimpleLogSink(nil, LEVEL_DEBUG, false)
	if s.writer != os.Stderr {
		t.Errorf("expected default writer to be os.Stderr, got %v", s.writer)
	}
}

func TestEnabled(t *testing.T) {
	s := NewSimpleLogSink(&bytes.Buffer{}, LEVEL_DEBUG, false)
	if !s.Enabled(LEVEL_INFO) {
		t.Error("expected info to be enabled")
	}
	if !s.Enabled(LEVEL_DEBUG) {
		t.Error("expected debug to be enabled")
	}
	if s.Enabled(LEVEL_TRACE) {
		t.Error("expected trace to be disabled")
	}
}

func TestInfoLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, LEVEL_DEBUG, false)
	s.Info(LEVEL_INFO, "probing image", "offset", 446)
	output := buf.String()

	if !strings.HasPrefix(output, "[INFO] probing image\n") {
		t.Errorf("unexpected message line, got %q", output)
	}
	if !strings.Contains(output, "  offset: 446\n") {
		t.Errorf("expected indented key-value pair, got %q", output)
	}
}

func TestInfoNotLoggedWhenDisabled(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, LEVEL_INFO, false)
	s.Info(LEVEL_TRACE, "decoded field", "name", "heads")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestErrorLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, LEVEL_INFO, false)
	s.Error(errors.New("short read"), "probe failed", "decoder", "ext")
	output := buf.String()

	for _, want := range []string{"[ERROR]", "probe failed", "decoder: ext", "error: short read"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got %q", want, output)
		}
	}
}

func TestLevelLabels(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, 5, false)
	s.Info(LEVEL_DEBUG, "debug")
	s.Info(LEVEL_TRACE, "trace")
	s.Info(4, "custom")
	output := buf.String()

	for _, want := range []string{"[DEBUG] debug", "[TRACE] trace", "[LEVEL 4] custom"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got %q", want, output)
		}
	}
}

func TestChainedWithName(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, LEVEL_DEBUG, false)
	chain := s.WithName("detect").WithName("mbr").(*SimpleLogSink)
	chain.Info(LEVEL_INFO, "verified")

	if !strings.Contains(buf.String(), "[detect.mbr] verified") {
		t.Errorf("expected combined name, got %q", buf.String())
	}
}

// Derived sinks must keep their configuration.
func TestWithValuesKeepsConfiguration(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, LEVEL_TRACE, false)
	derived := s.WithValues("format", "fat").(*SimpleLogSink)

	if derived.minVerbosity != LEVEL_TRACE || derived.writer != buf || derived.useColor {
		t.Fatalf("configuration not propagated: %+v", derived)
	}

	derived.Info(LEVEL_TRACE, "decoded", "field", "heads")
	output := buf.String()
	if !strings.Contains(output, "  format: fat\n  field: heads\n") {
		t.Errorf("expected inherited then local values, got %q", output)
	}
}

func TestNonStringKey(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSimpleLogSink(buf, LEVEL_DEBUG, false)
	s.Info(LEVEL_INFO, "non-string key", 123, "value")

	if !strings.Contains(buf.String(), "key0: value") {
		t.Errorf("expected 'key0: value', got %q", buf.String())
	}
}

func TestInitSetsCallDepth(t *testing.T) {
	s := NewSimpleLogSink(&bytes.Buffer{}, LEVEL_DEBUG, false)
	s.Init(logr.RuntimeInfo{CallDepth: 5})
	if s.callDepth != 5 {
		t.Errorf("expected callDepth 5, got %d", s.callDepth)
	}
}

func TestLoggerWrapper(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(NewSimpleLogger(buf, LEVEL_DEBUG, false))
	log.Info("info message")
	log.Debug("debug message")
	log.Trace("trace message")
	output := buf.String()

	if !strings.Contains(output, "[INFO] info message") || !strings.Contains(output, "[DEBUG] debug message") {
		t.Errorf("missing enabled messages, got %q", output)
	}
	if strings.Contains(output, "trace message") {
		t.Errorf("trace should be disabled at debug verbosity, got %q", output)
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	var log *Logger
	log.Info("ignored")
	log.Debug("ignored")
	log.Trace("ignored")
	log.Error(errors.New("ignored"), "ignored")
	if log.WithName("x") != nil || log.WithValues("k", "v") != nil {
		t.Error("derived loggers of a nil logger should stay nil")
	}
}

func TestNewLoggerWithoutSink(t *testing.T) {
	log := NewLogger(logr.Logger{})
	log.Info("discarded")
}
