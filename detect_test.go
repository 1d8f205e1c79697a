package basicpitch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knights-analytics/basicpitch/options"
)

var errMissing = errors.New("library not found")

// stubProbes replaces all four probes so tests never depend on what the host has installed.
func stubProbes(available ...RuntimeKind) []options.WithOption {
	var opts []options.WithOption
	for _, k := range Runtimes() {
		result := errMissing
		for _, a := range available {
			if a == k {
				result = nil
			}
		}
		opts = append(opts, options.WithProbe(k.Name(), func(context.Context, *options.Options) error {
			return result
		}))
	}
	return opts
}

func captureLogger(buf *bytes.Buffer) *log.Logger {
	return &log.Logger{
		Level:  log.DebugLevel,
		Writer: &log.IOWriter{Writer: buf},
	}
}

func warnLines(buf *bytes.Buffer) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, `"level":"warn"`) {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestDetectSingleMissingRuntime(t *testing.T) {
	for _, missing := range Runtimes() {
		t.Run(missing.Name(), func(t *testing.T) {
			var present []RuntimeKind
			for _, k := range Runtimes() {
				if k != missing {
					present = append(present, k)
				}
			}
			buf := &bytes.Buffer{}
			opts := append(stubProbes(present...), options.WithLogger(captureLogger(buf)))
			detector, err := NewDetector(opts...)
			require.NoError(t, err)

			available := detector.Detect(context.Background())
			for _, k := range Runtimes() {
				assert.Equal(t, k != missing, available.Has(k), "runtime %s", k)
			}

			warnings := warnLines(buf)
			require.Len(t, warnings, 1)
			assert.Contains(t, warnings[0], `"runtime":"`+missing.Name()+`"`)
			assert.Contains(t, warnings[0], missing.Suffix())
			assert.Contains(t, warnings[0], errMissing.Error())
			assert.Contains(t, warnings[0], missing.InstallHint())
		})
	}
}

func TestDetectNothingInstalled(t *testing.T) {
	buf := &bytes.Buffer{}
	detector, err := NewDetector(append(stubProbes(), options.WithLogger(captureLogger(buf)))...)
	require.NoError(t, err)
	assert.Equal(t, AvailabilitySet{}, detector.Detect(context.Background()))
	assert.Len(t, warnLines(buf), 4)
}

func TestDetectIsIdempotent(t *testing.T) {
	detector, err := NewDetector(append(stubProbes(CoreML, ONNX), options.WithLogger(captureLogger(&bytes.Buffer{})))...)
	require.NoError(t, err)
	first := detector.Detect(context.Background())
	second := detector.Detect(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, AvailabilitySet{CoreML: true, ONNX: true}, first)
}

func TestDetectPanickingProbe(t *testing.T) {
	opts := append(stubProbes(TensorFlow, CoreML, TFLite, ONNX),
		options.WithProbe("tflite", func(context.Context, *options.Options) error {
			panic("dlopen exploded")
		}),
		options.WithLogger(captureLogger(&bytes.Buffer{})),
	)
	cfg, err := Resolve(context.Background(), opts...)
	require.NoError(t, err)
	assert.Equal(t, AvailabilitySet{TensorFlow: true, CoreML: true, ONNX: true}, cfg.Availability())
	require.Error(t, cfg.ProbeError(TFLite))
	assert.Contains(t, cfg.ProbeError(TFLite).Error(), "dlopen exploded")
}

func TestDetectDisabledRuntimesAreNotProbed(t *testing.T) {
	probed := false
	opts := append(stubProbes(TensorFlow, ONNX),
		options.WithProbe("tf", func(context.Context, *options.Options) error {
			probed = true
			return nil
		}),
		options.WithDisabledRuntimes("tf"),
		options.WithLogger(captureLogger(&bytes.Buffer{})),
	)
	cfg, err := Resolve(context.Background(), opts...)
	require.NoError(t, err)
	assert.False(t, probed)
	assert.False(t, cfg.Availability().TensorFlow)
	assert.Equal(t, ONNX, cfg.Default())
	assert.ErrorIs(t, cfg.ProbeError(TensorFlow), ErrRuntimeDisabled)
}

func TestDetectProbeReceivesOptions(t *testing.T) {
	var seen string
	opts := append(stubProbes(),
		options.WithBaseDir("/pkg/basic_pitch"),
		options.WithProbe("onnx", func(_ context.Context, o *options.Options) error {
			seen = o.BaseDir
			return nil
		}),
		options.WithLogger(captureLogger(&bytes.Buffer{})),
	)
	detector, err := NewDetector(opts...)
	require.NoError(t, err)
	assert.True(t, detector.Detect(context.Background()).ONNX)
	assert.Equal(t, "/pkg/basic_pitch", seen)
}

func TestNewDetectorUnknownNames(t *testing.T) {
	_, err := NewDetector(options.WithProbe("caffe", func(context.Context, *options.Options) error { return nil }))
	assert.ErrorIs(t, err, ErrUnknownRuntime)
	_, err = NewDetector(options.WithDisabledRuntimes("mxnet"))
	assert.ErrorIs(t, err, ErrUnknownRuntime)
	_, err = Resolve(context.Background(), options.WithDisabledRuntimes("mxnet"))
	assert.ErrorIs(t, err, ErrUnknownRuntime)
}

func TestDetectDisabledNamesIgnoreCase(t *testing.T) {
	cfg, err := resolveWith(t, []RuntimeKind{TFLite, ONNX}, options.WithDisabledRuntimes("TFLite"))
	require.NoError(t, err)
	assert.Equal(t, ONNX, cfg.Default())
}

func TestDetectProbeNamesIgnoreCase(t *testing.T) {
	opts := append(stubProbes(),
		options.WithProbe("TF", func(context.Context, *options.Options) error { return errMissing }),
		options.WithProbe("tf", func(context.Context, *options.Options) error { return nil }),
		options.WithLogger(captureLogger(&bytes.Buffer{})),
	)
	for i := 0; i < 5; i++ {
		detector, err := NewDetector(opts...)
		require.NoError(t, err)
		assert.Equal(t, AvailabilitySet{TensorFlow: true}, detector.Detect(context.Background()))
	}
}
