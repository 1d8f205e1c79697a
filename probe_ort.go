//go:build !NOORT || ALL

package basicpitch

import (
	"context"
	"errors"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/knights-analytics/basicpitch/options"
	"github.com/knights-analytics/basicpitch/util/fileutil"
)

// probeONNX loads the ONNX Runtime shared library and starts and stops an environment with it.
// An environment that is already running counts as available and is left alone.
func probeONNX(ctx context.Context, o *options.Options) error {
	if ort.IsInitialized() {
		return nil
	}

	libraryPath, err := ortLibraryPath(ctx, o)
	if err != nil {
		return err
	}
	ort.SetSharedLibraryPath(libraryPath)

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialising onnxruntime from %s: %w", libraryPath, err)
	}
	if err := ort.DisableTelemetry(); err != nil {
		return errors.Join(err, ort.DestroyEnvironment())
	}
	return ort.DestroyEnvironment()
}

// ortLibraryPath returns the configured library, or searches the ORT library dir and then the library search path.
// A configured path that does not exist is an error: the library is not looked for elsewhere.
func ortLibraryPath(ctx context.Context, o *options.Options) (string, error) {
	var ortDirs []string
	if o.ORTOptions != nil {
		if o.ORTOptions.LibraryPath != nil {
			configured := *o.ORTOptions.LibraryPath
			object, err := fileutil.FileStatsContext(ctx, configured)
			if err != nil {
				return "", fmt.Errorf("configured ONNX Runtime library %s: %w", configured, err)
			}
			if !object.IsDir() {
				return configured, nil
			}
			return findLibrary(ctx, []string{configured}, libraryNames(ONNX))
		}
		if o.ORTOptions.LibraryDir != nil && *o.ORTOptions.LibraryDir != "" {
			ortDirs = append(ortDirs, *o.ORTOptions.LibraryDir)
		}
	}
	return findLibrary(ctx, append(ortDirs, librarySearchDirs(o)...), libraryNames(ONNX))
}
