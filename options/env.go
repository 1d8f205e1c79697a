package options

import (
	"os"

	"github.com/knights-analytics/basicpitch/util/fileutil"
)

const (
	// EnvModelDir overrides the directory that contains saved_models/icassp_2022.
	EnvModelDir = "BASICPITCH_MODEL_DIR"

	// EnvLibraryPath is a list of extra runtime library directories, using the OS list separator.
	EnvLibraryPath = "BASICPITCH_LIBRARY_PATH"

	// EnvOnnxRuntimeLibrary is the path to the ONNX Runtime shared library.
	EnvOnnxRuntimeLibrary = "BASICPITCH_ONNXRUNTIME_LIBRARY"
)

// FromEnv returns the options set through environment variables. Unset variables add nothing.
func FromEnv() []WithOption {
	var opts []WithOption
	if v := os.Getenv(EnvModelDir); v != "" {
		opts = append(opts, WithBaseDir(v))
	}
	if v := os.Getenv(EnvLibraryPath); v != "" {
		opts = append(opts, WithLibraryDirs(fileutil.SplitList(v)...))
	}
	if v := os.Getenv(EnvOnnxRuntimeLibrary); v != "" {
		opts = append(opts, WithOnnxLibraryPathUnchecked(v))
	}
	return opts
}
