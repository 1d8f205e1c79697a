package basicpitch

import (
	"context"
	"fmt"

	"github.com/advancedclimatesystems/gonnx"

	"github.com/knights-analytics/basicpitch/util/fileutil"
)

// tfliteIdentifier is the flatbuffer file identifier of TensorFlow Lite models, stored at bytes 4-8.
const tfliteIdentifier = "TFL3"

// AssetInfo describes a model asset on disk.
type AssetInfo struct {
	Path    string      `json:"path"`
	Runtime RuntimeKind `json:"runtime"`
	IsDir   bool        `json:"is_dir"`
	Size    int64       `json:"size"`
	// Inputs, Outputs and Opset are only filled for ONNX models.
	Inputs  []string `json:"inputs,omitempty"`
	Outputs []string `json:"outputs,omitempty"`
	Opset   int64    `json:"opset,omitempty"`
}

// InspectAsset checks that the model asset for a runtime exists and has the expected form.
// TensorFlow saved models and CoreML packages are directories, TFLite and ONNX models are files.
// ONNX graphs are parsed to list their inputs and outputs.
func InspectAsset(ctx context.Context, path string, k RuntimeKind) (*AssetInfo, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownRuntime, k)
	}
	object, err := fileutil.FileStatsContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("model asset %s: %w", path, err)
	}
	info := &AssetInfo{
		Path:    path,
		Runtime: k,
		IsDir:   object.IsDir(),
		Size:    object.Size(),
	}

	switch k {
	case TensorFlow, CoreML:
		if !info.IsDir {
			return nil, fmt.Errorf("%s model asset %s should be a directory", k, path)
		}
	case TFLite:
		if info.IsDir {
			return nil, fmt.Errorf("%s model asset %s should be a file", k, path)
		}
		modelBytes, err := fileutil.ReadFileBytes(path)
		if err != nil {
			return nil, err
		}
		if len(modelBytes) < 8 || string(modelBytes[4:8]) != tfliteIdentifier {
			return nil, fmt.Errorf("%s is not a TensorFlow Lite model", path)
		}
	case ONNX:
		if info.IsDir {
			return nil, fmt.Errorf("%s model asset %s should be a file", k, path)
		}
		modelBytes, err := fileutil.ReadFileBytes(path)
		if err != nil {
			return nil, err
		}
		// only the graph signature is read, so opsets gonnx cannot execute are still accepted
		mp, err := gonnx.ModelProtoFromBytes(modelBytes)
		if err != nil {
			return nil, fmt.Errorf("parsing onnx model %s: %w", path, err)
		}
		if mp.GetGraph() == nil {
			return nil, fmt.Errorf("onnx model %s has no graph", path)
		}
		for _, opset := range mp.GetOpsetImport() {
			if opset.GetDomain() == "" && opset.GetVersion() > info.Opset {
				info.Opset = opset.GetVersion()
			}
		}
		info.Inputs = mp.GetGraph().InputNames()
		info.Outputs = mp.GetGraph().OutputNames()
	}
	return info, nil
}

// InspectDefault inspects the model asset of the default runtime.
func (c *Config) InspectDefault(ctx context.Context) (*AssetInfo, error) {
	path, err := c.DefaultModelPath()
	if err != nil {
		return nil, err
	}
	return InspectAsset(ctx, path, c.defaultRuntime)
}
