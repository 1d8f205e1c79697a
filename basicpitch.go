// Package basicpitch locates the pretrained Basic Pitch audio-to-MIDI model for the inference runtimes
// installed on the host.
//
// Four runtimes can serve the model, each from its own bundled asset under saved_models/icassp_2022:
// TensorFlow (saved model), CoreML (mlpackage), TensorFlow Lite and ONNX. Resolve probes each runtime once,
// records which are usable and picks a default in that priority order:
//
//	cfg, err := basicpitch.Resolve(ctx, options.WithBaseDir("/opt/basic_pitch"))
//	if err != nil {
//		return err
//	}
//	modelPath, err := cfg.DefaultModelPath() // basicpitch.ErrNoRuntime when nothing is installed
//
// The ONNX probe loads the ONNX Runtime library through onnxruntime_go and is compiled in unless the NOORT tag
// is set (build with -tags ALL to force it). The TensorFlow and TensorFlow Lite probes look for the C libraries
// on the library search path. The CoreML probe only succeeds on macOS.
package basicpitch

const (
	Version     = "0.3.0"
	Author      = "Spotify"
	Email       = "basic-pitch@spotify.com"
	DemoWebsite = "https://basicpitch.io"
	Description = "Basic Pitch, a lightweight yet powerful audio-to-MIDI converter with pitch bend detection."
	URL         = "https://github.com/spotify/basic-pitch"
)
