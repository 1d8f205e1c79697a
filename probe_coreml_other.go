//go:build !darwin

package basicpitch

import (
	"context"
	"errors"

	"github.com/knights-analytics/basicpitch/options"
)

// On non-darwin platforms CoreML cannot be loaded.
func probeCoreML(_ context.Context, _ *options.Options) error {
	return errors.New("CoreML is only available on macOS")
}
