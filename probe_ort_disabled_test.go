//go:build NOORT && !ALL

package basicpitch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/knights-analytics/basicpitch/options"
)

func TestProbeONNXCompiledOut(t *testing.T) {
	assert.Error(t, probeONNX(context.Background(), options.Defaults()))
}
