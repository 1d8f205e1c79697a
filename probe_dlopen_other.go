//go:build !darwin && !linux && !windows

package basicpitch

import (
	"fmt"
	"runtime"
)

func loadLibrary(path string, _ string) error {
	return fmt.Errorf("cannot load %s: shared libraries are not supported on %s", path, runtime.GOOS)
}
