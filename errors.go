package basicpitch

import "errors"

var (
	// ErrNoRuntime is returned when a default model is needed but none of the runtimes is installed.
	ErrNoRuntime = errors.New("no inference runtime installed")

	ErrUnknownRuntime = errors.New("unknown inference runtime")

	// ErrRuntimeDisabled is the probe result for runtimes switched off through options.
	ErrRuntimeDisabled = errors.New("runtime disabled by configuration")
)
