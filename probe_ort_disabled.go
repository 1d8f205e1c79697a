//go:build NOORT && !ALL

package basicpitch

import (
	"context"
	"errors"

	"github.com/knights-analytics/basicpitch/options"
)

func probeONNX(_ context.Context, _ *options.Options) error {
	return errors.New("ONNX Runtime support was compiled out, build without `-tags NOORT` or with `-tags ALL`")
}
