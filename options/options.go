package options

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/phuslu/log"

	"github.com/knights-analytics/basicpitch/util/fileutil"
)

// ProbeFunc checks whether a runtime can be loaded on this host. A nil error means available.
type ProbeFunc func(ctx context.Context, o *Options) error

type Options struct {
	// BaseDir is the directory that holds saved_models/icassp_2022.
	BaseDir     string
	LibraryDirs []string
	ORTOptions  *OrtOptions
	// Probes replaces the built-in probe for a runtime, keyed by runtime name (tf, coreml, tflite, onnx).
	Probes         map[string]ProbeFunc
	Disabled       map[string]bool
	RequireRuntime bool
	Logger         *log.Logger
}

type OrtOptions struct {
	// LibraryPath is a configured library file or directory. When nil the library is searched for.
	LibraryPath *string
	// LibraryDir is searched for the ONNX Runtime library before the other library directories.
	LibraryDir *string
}

func Defaults() *Options {
	_, libraryDirDefault, _ := getDefaultLibraryPaths()
	return &Options{
		BaseDir: defaultBaseDir(),
		ORTOptions: &OrtOptions{
			LibraryDir: &libraryDirDefault,
		},
		Probes:   map[string]ProbeFunc{},
		Disabled: map[string]bool{},
		Logger: &log.Logger{
			Level:  log.WarnLevel,
			Writer: &log.IOWriter{Writer: os.Stderr},
		},
	}
}

func getDefaultLibraryPaths() (string, string, string) {
	switch runtime.GOOS {
	case "windows":
		return `onnxruntime.dll`, `.\`, `.\onnxruntime.dll`
	case "darwin":
		return "libonnxruntime.dylib", "/usr/local/lib", "/usr/local/lib/libonnxruntime.dylib"
	default:
		return "libonnxruntime.so", "/usr/lib", "/usr/lib/libonnxruntime.so"
	}
}

// defaultBaseDir is the directory of the running executable, where the model assets are installed
// next to the binary. Falls back to the working directory.
func defaultBaseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// WithOption is the interface for all option functions.
type WithOption func(o *Options) error

// Apply builds Options from the defaults and the given option functions, in order.
// Nil options are skipped.
func Apply(opts ...WithOption) (*Options, error) {
	o := Defaults()
	for _, option := range opts {
		if option == nil {
			continue
		}
		if err := option(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithBaseDir sets the directory that contains saved_models/icassp_2022. Local paths and s3:// URLs are accepted.
// The directory is not checked for existence.
func WithBaseDir(dir string) WithOption {
	return func(o *Options) error {
		if dir == "" {
			return errors.New("WithBaseDir requires a non-empty directory")
		}
		o.BaseDir = dir
		return nil
	}
}

// WithLibraryDirs adds directories searched for runtime shared libraries, ahead of the
// loader environment variables and the platform defaults.
func WithLibraryDirs(dirs ...string) WithOption {
	return func(o *Options) error {
		for _, d := range dirs {
			if d != "" {
				o.LibraryDirs = append(o.LibraryDirs, d)
			}
		}
		return nil
	}
}

// WithOnnxLibraryPath sets the path to the "libonnxruntime.so", "libonnxruntime.dylib" or "onnxruntime.dll" file.
// A directory is also accepted, in which case the platform library name is appended.
func WithOnnxLibraryPath(ortLibraryPath string) WithOption {
	return func(o *Options) error {
		object, err := fileutil.FileStats(ortLibraryPath)
		if err != nil {
			return fmt.Errorf("failed to access ONNX Runtime library path %q: %w", ortLibraryPath, err)
		}

		libraryDir, libraryFullPath := filepath.Dir(ortLibraryPath), ortLibraryPath
		if object.IsDir() {
			libraryName, _, _ := getDefaultLibraryPaths()
			libraryDir = ortLibraryPath
			libraryFullPath = fileutil.PathJoinSafe(ortLibraryPath, libraryName)
			exists, err := fileutil.FileExists(libraryFullPath)
			if err != nil {
				return fmt.Errorf("error checking for existence of ONNX Runtime library file: %w", err)
			}
			if !exists {
				return fmt.Errorf("ONNX Runtime library %s does not exist at %q", libraryName, ortLibraryPath)
			}
		}
		o.ORTOptions.LibraryPath = &libraryFullPath
		o.ORTOptions.LibraryDir = &libraryDir
		return nil
	}
}

// WithOnnxLibraryPathUnchecked records the ONNX Runtime library file or directory without looking at it.
// A path that does not exist makes the ONNX runtime unavailable when probed, leaving the other runtimes alone.
// Environment variables and config files use this form.
func WithOnnxLibraryPathUnchecked(ortLibraryPath string) WithOption {
	return func(o *Options) error {
		if ortLibraryPath == "" {
			return errors.New("WithOnnxLibraryPathUnchecked requires a non-empty path")
		}
		libraryDir := filepath.Dir(ortLibraryPath)
		o.ORTOptions.LibraryPath = &ortLibraryPath
		o.ORTOptions.LibraryDir = &libraryDir
		return nil
	}
}

// runtimeKey normalises a runtime name for the Probes and Disabled maps.
func runtimeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// WithProbe replaces the built-in availability probe for the named runtime.
func WithProbe(runtimeName string, probe ProbeFunc) WithOption {
	return func(o *Options) error {
		if probe == nil {
			return fmt.Errorf("WithProbe requires a probe for %s", runtimeName)
		}
		o.Probes[runtimeKey(runtimeName)] = probe
		return nil
	}
}

// WithDisabledRuntimes marks runtimes as unavailable without probing them.
func WithDisabledRuntimes(runtimeNames ...string) WithOption {
	return func(o *Options) error {
		for _, name := range runtimeNames {
			o.Disabled[runtimeKey(name)] = true
		}
		return nil
	}
}

// WithRequireRuntime makes resolution fail when no runtime is available, instead of
// deferring the error to the first default path lookup.
func WithRequireRuntime() WithOption {
	return func(o *Options) error {
		o.RequireRuntime = true
		return nil
	}
}

// WithLogger sets the logger used for probe warnings.
func WithLogger(logger *log.Logger) WithOption {
	return func(o *Options) error {
		if logger == nil {
			return errors.New("WithLogger requires a non-nil logger")
		}
		o.Logger = logger
		return nil
	}
}
