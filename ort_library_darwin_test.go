package basicpitch

// onnxRuntimeSharedLibrary is the default ONNX Runtime library path for macOS.
// This assumes ONNX Runtime was installed via Homebrew (Apple Silicon default location).
// For Intel Macs, this may be at /usr/local/lib/libonnxruntime.dylib
const onnxRuntimeSharedLibrary = "/opt/homebrew/lib/libonnxruntime.dylib"

// systemLibrary is always loadable on macOS and exports systemSymbol.
const (
	systemLibrary = "/usr/lib/libSystem.B.dylib"
	systemSymbol  = "malloc"
)
