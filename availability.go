package basicpitch

// AvailabilitySet records which runtimes are usable on this host.
type AvailabilitySet struct {
	TensorFlow bool `json:"tf"`
	CoreML     bool `json:"coreml"`
	TFLite     bool `json:"tflite"`
	ONNX       bool `json:"onnx"`
}

// Has reports whether the runtime is available. RuntimeNone and invalid kinds never are.
func (a AvailabilitySet) Has(k RuntimeKind) bool {
	switch k {
	case TensorFlow:
		return a.TensorFlow
	case CoreML:
		return a.CoreML
	case TFLite:
		return a.TFLite
	case ONNX:
		return a.ONNX
	default:
		return false
	}
}

// with returns a copy of a with the runtime's flag set to available.
func (a AvailabilitySet) with(k RuntimeKind, available bool) AvailabilitySet {
	switch k {
	case TensorFlow:
		a.TensorFlow = available
	case CoreML:
		a.CoreML = available
	case TFLite:
		a.TFLite = available
	case ONNX:
		a.ONNX = available
	}
	return a
}

// Available lists the available runtimes, highest priority first.
func (a AvailabilitySet) Available() []RuntimeKind {
	var out []RuntimeKind
	for _, k := range priority {
		if a.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// SelectDefault returns the first available runtime in priority order
// (TensorFlow, CoreML, TFLite, ONNX), or RuntimeNone when nothing is available.
func SelectDefault(a AvailabilitySet) RuntimeKind {
	for _, k := range priority {
		if a.Has(k) {
			return k
		}
	}
	return RuntimeNone
}
