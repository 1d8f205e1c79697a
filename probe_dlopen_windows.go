//go:build windows

package basicpitch

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

func loadLibrary(path string, symbol string) error {
	dll, err := windows.LoadDLL(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	if _, err := dll.FindProc(symbol); err != nil {
		return errors.Join(fmt.Errorf("%s does not export %s: %w", path, symbol, err), dll.Release())
	}
	return dll.Release()
}
