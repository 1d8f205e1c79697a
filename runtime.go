package basicpitch

import (
	"fmt"
	"strings"
)

// RuntimeKind is an inference runtime that can load the Basic Pitch model.
// The zero value, RuntimeNone, means no runtime.
type RuntimeKind int

const (
	RuntimeNone RuntimeKind = iota
	TensorFlow
	CoreML
	TFLite
	ONNX
)

type runtimeInfo struct {
	name    string
	display string
	suffix  string
	install string
}

var runtimeTable = map[RuntimeKind]runtimeInfo{
	TensorFlow: {
		name:    "tf",
		display: "TensorFlow",
		suffix:  "nmp",
		install: "install the TensorFlow C library (libtensorflow) and make sure it is on the library search path",
	},
	CoreML: {
		name:    "coreml",
		display: "CoreML",
		suffix:  "nmp.mlpackage",
		install: "CoreML models can only be run on macOS, where the CoreML framework ships with the OS",
	},
	TFLite: {
		name:    "tflite",
		display: "TensorFlow Lite",
		suffix:  "nmp.tflite",
		install: "install the TensorFlow Lite C library (libtensorflowlite_c) and make sure it is on the library search path",
	},
	ONNX: {
		name:    "onnx",
		display: "ONNX Runtime",
		suffix:  "nmp.onnx",
		install: "install the ONNX Runtime shared library (libonnxruntime) or point BASICPITCH_ONNXRUNTIME_LIBRARY at it",
	},
}

// priority is the order in which the default runtime is chosen.
var priority = []RuntimeKind{TensorFlow, CoreML, TFLite, ONNX}

// Runtimes returns every runtime kind, highest priority first.
func Runtimes() []RuntimeKind {
	out := make([]RuntimeKind, len(priority))
	copy(out, priority)
	return out
}

// Valid reports whether k is one of the four runtime kinds.
func (k RuntimeKind) Valid() bool {
	_, ok := runtimeTable[k]
	return ok
}

// Name is the short name of the runtime, as accepted by ParseRuntimeKind.
func (k RuntimeKind) Name() string {
	if info, ok := runtimeTable[k]; ok {
		return info.name
	}
	if k == RuntimeNone {
		return "none"
	}
	return fmt.Sprintf("RuntimeKind(%d)", int(k))
}

func (k RuntimeKind) String() string {
	if info, ok := runtimeTable[k]; ok {
		return info.display
	}
	return k.Name()
}

// Suffix is the file name of the model asset for this runtime inside the model directory.
// RuntimeNone and invalid kinds have no suffix.
func (k RuntimeKind) Suffix() string {
	return runtimeTable[k].suffix
}

// InstallHint tells the user how to make the runtime available.
func (k RuntimeKind) InstallHint() string {
	return runtimeTable[k].install
}

// ParseRuntimeKind maps a short runtime name (tf, coreml, tflite, onnx) to its kind. Matching ignores case.
func ParseRuntimeKind(name string) (RuntimeKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range priority {
		if runtimeTable[k].name == name {
			return k, nil
		}
	}
	return RuntimeNone, fmt.Errorf("%w: %q", ErrUnknownRuntime, name)
}

func (k RuntimeKind) MarshalText() ([]byte, error) {
	return []byte(k.Name()), nil
}

func (k *RuntimeKind) UnmarshalText(text []byte) error {
	if string(text) == "none" {
		*k = RuntimeNone
		return nil
	}
	parsed, err := ParseRuntimeKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
