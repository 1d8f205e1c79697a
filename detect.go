package basicpitch

import (
	"context"
	"errors"
	"fmt"

	"github.com/knights-analytics/basicpitch/options"
)

// Detector probes the host for inference runtimes. Each runtime has one probe; a probe that returns an
// error or panics marks its runtime unavailable and never affects the others.
type Detector struct {
	options  *options.Options
	probes   map[RuntimeKind]options.ProbeFunc
	disabled map[RuntimeKind]bool
}

// NewDetector builds a detector with the built-in probes, overridden by any options.WithProbe.
func NewDetector(opts ...options.WithOption) (*Detector, error) {
	parsedOptions, err := options.Apply(opts...)
	if err != nil {
		return nil, err
	}
	return newDetector(parsedOptions)
}

func newDetector(o *options.Options) (*Detector, error) {
	probes := defaultProbes()
	for name, probe := range o.Probes {
		k, err := ParseRuntimeKind(name)
		if err != nil {
			return nil, fmt.Errorf("probe override: %w", err)
		}
		probes[k] = probe
	}
	disabled := map[RuntimeKind]bool{}
	for name, off := range o.Disabled {
		k, err := ParseRuntimeKind(name)
		if err != nil {
			return nil, fmt.Errorf("disabled runtimes: %w", err)
		}
		disabled[k] = disabled[k] || off
	}
	return &Detector{options: o, probes: probes, disabled: disabled}, nil
}

func defaultProbes() map[RuntimeKind]options.ProbeFunc {
	return map[RuntimeKind]options.ProbeFunc{
		TensorFlow: probeTensorFlow,
		CoreML:     probeCoreML,
		TFLite:     probeTFLite,
		ONNX:       probeONNX,
	}
}

// Detect runs every probe once, in priority order, and logs a warning for each missing runtime.
func (d *Detector) Detect(ctx context.Context) AvailabilitySet {
	available, _ := d.detect(ctx)
	return available
}

func (d *Detector) detect(ctx context.Context) (AvailabilitySet, map[RuntimeKind]error) {
	var available AvailabilitySet
	reasons := map[RuntimeKind]error{}
	logger := d.options.Logger

	for _, k := range priority {
		err := d.probe(ctx, k)
		if errors.Is(err, ErrRuntimeDisabled) {
			reasons[k] = err
			logger.Debug().Str("runtime", k.Name()).Msg("runtime disabled, not probed")
			continue
		}
		if err != nil {
			reasons[k] = err
			logger.Warn().
				Str("runtime", k.Name()).
				Str("suffix", k.Suffix()).
				Str("install", k.InstallHint()).
				Err(err).
				Msgf("%s is not available. If you plan to use the %s model, %s", k, k.Suffix(), k.InstallHint())
			continue
		}
		logger.Debug().Str("runtime", k.Name()).Msg("runtime available")
		available = available.with(k, true)
	}
	return available, reasons
}

func (d *Detector) probe(ctx context.Context, k RuntimeKind) (err error) {
	if d.disabled[k] {
		return ErrRuntimeDisabled
	}
	probe, ok := d.probes[k]
	if !ok || probe == nil {
		return fmt.Errorf("no probe registered for %s", k)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe for %s panicked: %v", k, r)
		}
	}()
	return probe(ctx, d.options)
}
