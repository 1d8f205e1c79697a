package basicpitch

// onnxRuntimeSharedLibrary is the default ONNX Runtime library path for Linux.
const onnxRuntimeSharedLibrary = "/usr/lib64/onnxruntime.so"

// systemLibrary is always loadable on Linux and exports systemSymbol.
const (
	systemLibrary = "libc.so.6"
	systemSymbol  = "malloc"
)
