package basicpitch

import (
	"context"
	"fmt"

	"github.com/knights-analytics/basicpitch/options"
)

// Config is the result of runtime resolution. It is built once by Resolve and never changes afterwards,
// so it can be shared freely between goroutines.
type Config struct {
	availability   AvailabilitySet
	defaultRuntime RuntimeKind
	baseDir        string
	reasons        map[RuntimeKind]error
}

// Resolve detects the installed runtimes and selects the default model format.
//
// Having no runtime at all is not an error unless options.WithRequireRuntime is set: the returned Config
// reports RuntimeNone and DefaultModelPath returns ErrNoRuntime.
func Resolve(ctx context.Context, opts ...options.WithOption) (*Config, error) {
	parsedOptions, err := options.Apply(opts...)
	if err != nil {
		return nil, err
	}
	detector, err := newDetector(parsedOptions)
	if err != nil {
		return nil, err
	}

	available, reasons := detector.detect(ctx)
	cfg := &Config{
		availability:   available,
		defaultRuntime: SelectDefault(available),
		baseDir:        parsedOptions.BaseDir,
		reasons:        reasons,
	}
	if parsedOptions.RequireRuntime && cfg.defaultRuntime == RuntimeNone {
		return nil, ErrNoRuntime
	}
	return cfg, nil
}

// Availability returns the detected runtimes.
func (c *Config) Availability() AvailabilitySet {
	return c.availability
}

// Default is the selected runtime, or RuntimeNone.
func (c *Config) Default() RuntimeKind {
	return c.defaultRuntime
}

// BaseDir is the directory that contains saved_models/icassp_2022.
func (c *Config) BaseDir() string {
	return c.baseDir
}

// ProbeError returns why a runtime is unavailable, or nil if it is available.
func (c *Config) ProbeError(k RuntimeKind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %v", ErrUnknownRuntime, k)
	}
	return c.reasons[k]
}

// DefaultModelPath is the model asset path for the default runtime.
func (c *Config) DefaultModelPath() (string, error) {
	if c.defaultRuntime == RuntimeNone {
		return "", ErrNoRuntime
	}
	return BuildModelPath(c.baseDir, c.defaultRuntime), nil
}

// ModelPath is the model asset path for the given runtime. The runtime does not need to be available.
func (c *Config) ModelPath(k RuntimeKind) (string, error) {
	if !k.Valid() {
		return "", fmt.Errorf("%w: %v", ErrUnknownRuntime, k)
	}
	return BuildModelPath(c.baseDir, k), nil
}
