package option

import (
	"github.com/bgrewell/boot-kit/pkg/logging"
)

// ProbeProgressCallback is called after every probe the detector runs.
// Parameters:
// - probeName: The name of the structure that was probed.
// - offset: The absolute offset the decoder read from.
// - verified: Whether the decoded header passed its signature check.
// - currentProbe: The 1-based index of the probe.
// - totalProbes: The number of probes in the chain.
type ProbeProgressCallback func(
	probeName string,
	offset int64,
	verified bool,
	currentProbe int,
	totalProbes int,
)

// OpenOptions holds the settings applied by OpenOption functions.
type OpenOptions struct {
	ExtendedHeaders       bool
	ProbeProgressCallback ProbeProgressCallback
	Logger                *logging.Logger
}

type OpenOption func(*OpenOptions)

// Defaults returns the options used when none are given.
func Defaults() *OpenOptions {
	return &OpenOptions{
		ExtendedHeaders:       true,
		ProbeProgressCallback: func(string, int64, bool, int, int) {},
		Logger:                logging.DefaultLogger(),
	}
}

// Apply returns the defaults modified by opts.
func Apply(opts ...OpenOption) *OpenOptions {
	o := Defaults()
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = logging.DefaultLogger()
	}
	if o.ProbeProgressCallback == nil {
		o.ProbeProgressCallback = func(string, int64, bool, int, int) {}
	}
	return o
}

// WithProbeProgress sets a callback that is invoked after each probe.
func WithProbeProgress(callback ProbeProgressCallback) OpenOption {
	return func(o *OpenOptions) {
		o.ProbeProgressCallback = callback
	}
}

// WithLogger sets the logger used while opening and decoding an image.
func WithLogger(logger *logging.Logger) OpenOption {
	return func(o *OpenOptions) {
		o.Logger = logger
	}
}

// WithExtendedHeaders sets whether the FAT extended boot record and the ext dynamic revision superblock fields are
// decoded in addition to the base headers. Verification never depends on them.
func WithExtendedHeaders(enabled bool) OpenOption {
	return func(o *OpenOptions) {
		o.ExtendedHeaders = enabled
	}
}
