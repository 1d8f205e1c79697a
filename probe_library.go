package basicpitch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/knights-analytics/basicpitch/options"
	"github.com/knights-analytics/basicpitch/util/fileutil"
)

// Symbols looked up after loading a runtime library, to tell a real C API library from a file that only has the right name.
const (
	tensorFlowSymbol = "TF_Version"
	tfliteSymbol     = "TfLiteVersion"
)

func probeTensorFlow(ctx context.Context, o *options.Options) error {
	return probeSharedLibrary(ctx, o, TensorFlow, tensorFlowSymbol)
}

func probeTFLite(ctx context.Context, o *options.Options) error {
	return probeSharedLibrary(ctx, o, TFLite, tfliteSymbol)
}

// probeSharedLibrary loads the first library for the runtime found on the search path.
func probeSharedLibrary(ctx context.Context, o *options.Options, k RuntimeKind, symbol string) error {
	libraryPath, err := findLibrary(ctx, librarySearchDirs(o), libraryNames(k))
	if err != nil {
		return err
	}
	return loadLibrary(libraryPath, symbol)
}

// libraryNames are the shared library file names that provide a runtime on this OS.
func libraryNames(k RuntimeKind) []string {
	switch k {
	case TensorFlow:
		switch runtime.GOOS {
		case "windows":
			return []string{"tensorflow.dll"}
		case "darwin":
			return []string{"libtensorflow.dylib", "libtensorflow.2.dylib"}
		default:
			return []string{"libtensorflow.so", "libtensorflow.so.2"}
		}
	case TFLite:
		switch runtime.GOOS {
		case "windows":
			return []string{"tensorflowlite_c.dll"}
		case "darwin":
			return []string{"libtensorflowlite_c.dylib"}
		default:
			return []string{"libtensorflowlite_c.so"}
		}
	case ONNX:
		switch runtime.GOOS {
		case "windows":
			return []string{"onnxruntime.dll"}
		case "darwin":
			return []string{"libonnxruntime.dylib"}
		default:
			return []string{"libonnxruntime.so", "onnxruntime.so"}
		}
	default:
		return nil
	}
}

// librarySearchDirs lists the configured library dirs, then the dynamic loader path, then the platform defaults.
func librarySearchDirs(o *options.Options) []string {
	dirs := append([]string{}, o.LibraryDirs...)
	switch runtime.GOOS {
	case "windows":
		dirs = append(dirs, fileutil.SplitList(os.Getenv("PATH"))...)
	case "darwin":
		dirs = append(dirs, fileutil.SplitList(os.Getenv("DYLD_LIBRARY_PATH"))...)
		dirs = append(dirs, fileutil.SplitList(os.Getenv("DYLD_FALLBACK_LIBRARY_PATH"))...)
		dirs = append(dirs, "/usr/local/lib", "/opt/homebrew/lib")
	default:
		dirs = append(dirs, fileutil.SplitList(os.Getenv("LD_LIBRARY_PATH"))...)
		dirs = append(dirs, "/usr/local/lib", "/usr/lib", "/usr/lib64", "/usr/lib/x86_64-linux-gnu", "/usr/lib/aarch64-linux-gnu")
	}
	return dirs
}

// findLibrary returns the first dir/name combination that exists.
func findLibrary(ctx context.Context, dirs []string, names []string) (string, error) {
	for _, dir := range dirs {
		for _, name := range names {
			candidate := fileutil.PathJoinSafe(dir, name)
			if err := ctx.Err(); err != nil {
				return "", err
			}
			// unreadable directories are skipped like missing ones
			exists, err := fileutil.FileExistsContext(ctx, candidate)
			if err == nil && exists {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("none of %s found in %d library directories", strings.Join(names, ", "), len(dirs))
}
