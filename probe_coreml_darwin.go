//go:build darwin

package basicpitch

import (
	"context"
	"fmt"

	"github.com/knights-analytics/basicpitch/options"
	"github.com/knights-analytics/basicpitch/util/fileutil"
)

const coreMLFramework = "/System/Library/Frameworks/CoreML.framework"

func probeCoreML(ctx context.Context, _ *options.Options) error {
	exists, err := fileutil.FileExistsContext(ctx, coreMLFramework)
	if err != nil {
		return fmt.Errorf("checking %s: %w", coreMLFramework, err)
	}
	if !exists {
		return fmt.Errorf("CoreML framework not found at %s", coreMLFramework)
	}
	return nil
}
