//go:build darwin || linux

package basicpitch

import (
	"errors"
	"fmt"

	"github.com/ebitengine/purego"
)

// loadLibrary opens the shared library, resolves symbol in it and closes it again.
func loadLibrary(path string, symbol string) error {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	if _, err := purego.Dlsym(handle, symbol); err != nil {
		return errors.Join(fmt.Errorf("%s does not export %s: %w", path, symbol, err), purego.Dlclose(handle))
	}
	return purego.Dlclose(handle)
}
