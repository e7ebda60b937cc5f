package logging

import (
	"github.com/go-logr/logr"
)

const (
	LEVEL_INFO  = 0
	LEVEL_DEBUG = 1
	LEVEL_TRACE = 2
)

// NewLogger wraps a logr.Logger. A logger without a sink discards everything.
func NewLogger(log logr.Logger) *Logger {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Logger{log: log}
}

// DefaultLogger returns a Logger that discards all output.
func DefaultLogger() *Logger {
	return &Logger{log: logr.Discard()}
}

// Logger is a thin wrapper around logr.Logger that keeps the verbosity levels in one place. A nil *Logger is valid
// and discards everything, so decoders can be called without one.
type Logger struct {
	log logr.Logger
}

// WithName returns a Logger whose messages are prefixed with name.
func (l *Logger) WithName(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{log: l.log.WithName(name)}
}

// WithValues returns a Logger that attaches keysAndValues to every message.
func (l *Logger) WithValues(keysAndValues ...interface{}) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{log: l.log.WithValues(keysAndValues...)}
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	if l == nil {
		return
	}
	l.log.Info(msg, keysAndValues...)
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if l == nil {
		return
	}
	l.log.V(LEVEL_DEBUG).Info(msg, keysAndValues...)
}

func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	if l == nil {
		return
	}
	l.log.V(LEVEL_TRACE).Info(msg, keysAndValues...)
}

func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	if l == nil {
		return
	}
	l.log.Error(err, msg, keysAndValues...)
}
