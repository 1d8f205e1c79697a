package basicpitch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/advancedclimatesystems/gonnx/onnx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/knights-analytics/basicpitch/options"
)

func modelDir(t *testing.T) (string, string) {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, filepath.FromSlash(ICASSP2022ModelDir))
	require.NoError(t, os.MkdirAll(dir, os.ModePerm))
	return base, dir
}

func TestInspectAssetMissing(t *testing.T) {
	base, _ := modelDir(t)
	_, err := InspectAsset(context.Background(), BuildModelPath(base, ONNX), ONNX)
	assert.Error(t, err)
}

func TestInspectAssetDirectories(t *testing.T) {
	base, dir := modelDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nmp", "variables"), os.ModePerm))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nmp.mlpackage"), os.ModePerm))

	info, err := InspectAsset(context.Background(), BuildModelPath(base, TensorFlow), TensorFlow)
	require.NoError(t, err)
	assert.True(t, info.IsDir)
	assert.Equal(t, TensorFlow, info.Runtime)

	_, err = InspectAsset(context.Background(), BuildModelPath(base, CoreML), CoreML)
	require.NoError(t, err)

	// a directory where a file is expected
	_, err = InspectAsset(context.Background(), BuildModelPath(base, CoreML), TFLite)
	assert.Error(t, err)
}

func TestInspectAssetTFLite(t *testing.T) {
	base, dir := modelDir(t)
	p := filepath.Join(dir, "nmp.tflite")
	require.NoError(t, os.WriteFile(p, []byte("\x1c\x00\x00\x00TFL3\x00\x00\x00\x00"), 0o644))

	info, err := InspectAsset(context.Background(), BuildModelPath(base, TFLite), TFLite)
	require.NoError(t, err)
	assert.False(t, info.IsDir)
	assert.Equal(t, int64(12), info.Size)

	require.NoError(t, os.WriteFile(p, []byte("not a flatbuffer"), 0o644))
	_, err = InspectAsset(context.Background(), p, TFLite)
	assert.Error(t, err)

	// a file where a saved model directory is expected
	_, err = InspectAsset(context.Background(), p, TensorFlow)
	assert.Error(t, err)
}

func TestInspectAssetInvalidOnnx(t *testing.T) {
	_, dir := modelDir(t)
	p := filepath.Join(dir, "nmp.onnx")
	require.NoError(t, os.WriteFile(p, []byte("\xff\xff\xff\xff definitely not protobuf"), 0o644))
	_, err := InspectAsset(context.Background(), p, ONNX)
	assert.Error(t, err)
}

func writeOnnxModel(t *testing.T, path string, mp *onnx.ModelProto) {
	t.Helper()
	b, err := proto.Marshal(mp)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o644))
}

func TestInspectAssetOnnx(t *testing.T) {
	base, _ := modelDir(t)
	p := BuildModelPath(base, ONNX)
	writeOnnxModel(t, p, &onnx.ModelProto{
		IrVersion:   8,
		OpsetImport: []*onnx.OperatorSetIdProto{{Domain: "ai.onnx.ml", Version: 3}, {Version: 17}},
		Graph: &onnx.GraphProto{
			Name:  "nmp",
			Input: []*onnx.ValueInfoProto{{Name: "serving_default_input_2:0"}},
			Output: []*onnx.ValueInfoProto{
				{Name: "StatefulPartitionedCall:0"},
				{Name: "StatefulPartitionedCall:1"},
				{Name: "StatefulPartitionedCall:2"},
			},
		},
	})

	info, err := InspectAsset(context.Background(), p, ONNX)
	require.NoError(t, err)
	assert.Equal(t, ONNX, info.Runtime)
	assert.False(t, info.IsDir)
	assert.Positive(t, info.Size)
	assert.Equal(t, []string{"serving_default_input_2:0"}, info.Inputs)
	assert.Equal(t, []string{"StatefulPartitionedCall:0", "StatefulPartitionedCall:1", "StatefulPartitionedCall:2"}, info.Outputs)
	assert.Equal(t, int64(17), info.Opset)
}

func TestInspectAssetOnnxWithoutGraph(t *testing.T) {
	base, _ := modelDir(t)
	p := BuildModelPath(base, ONNX)
	writeOnnxModel(t, p, &onnx.ModelProto{IrVersion: 8, ProducerName: "tf2onnx"})

	_, err := InspectAsset(context.Background(), p, ONNX)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no graph")
}

func TestInspectAssetUnknownRuntime(t *testing.T) {
	_, err := InspectAsset(context.Background(), t.TempDir(), RuntimeNone)
	assert.ErrorIs(t, err, ErrUnknownRuntime)
}

func TestInspectDefault(t *testing.T) {
	base, dir := modelDir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nmp.mlpackage"), os.ModePerm))

	cfg, err := resolveWith(t, []RuntimeKind{CoreML, ONNX}, options.WithBaseDir(base))
	require.NoError(t, err)
	info, err := cfg.InspectDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CoreML, info.Runtime)
	assert.Equal(t, filepath.Join(dir, "nmp.mlpackage"), info.Path)
}
