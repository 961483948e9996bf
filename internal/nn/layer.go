package nn

import "fmt"

// LayerType tags a Layer descriptor.
type LayerType string

// Layer types.
const (
	LayerInput  LayerType = "input"
	LayerHidden LayerType = "hidden"
	LayerOutput LayerType = "output"
)

// OutputSize is the width of the output layer: P(positive), P(negative).
const OutputSize = 2

// ScaleFactor records the statistics used to standardize one input column.
type ScaleFactor struct {
	Mean   float64 `json:"mean"`
	Stddev float64 `json:"stddev"`
}

// Layer describes one layer of the network.
//
// ScaleFactors is set only on the input layer (nil entries mark columns that
// were not standardized). Activation is set on hidden and output layers.
type Layer struct {
	Type         LayerType      `json:"layerType"`
	Size         int            `json:"size"`
	ScaleFactors []*ScaleFactor `json:"scaleFactors,omitempty"`
	Activation   *Activation    `json:"activationFunction,omitempty"`
}

// InputLayer returns an input layer descriptor with one unit per scale factor.
func InputLayer(scaleFactors []*ScaleFactor) Layer {
	return Layer{Type: LayerInput, Size: len(scaleFactors), ScaleFactors: scaleFactors}
}

// HiddenLayer returns a hidden layer descriptor.
func HiddenLayer(size int, act Activation) Layer {
	return Layer{Type: LayerHidden, Size: size, Activation: &act}
}

// OutputLayer returns the softmax output layer descriptor.
func OutputLayer() Layer {
	return Layer{Type: LayerOutput, Size: OutputSize, Activation: &Activation{Method: ActivationSoftmax}}
}

// ValidateLayers checks the topology invariants: at least two layers, input
// first, output last, hidden in between, positive sizes.
func ValidateLayers(layers []Layer) error {
	if len(layers) < 2 {
		return fmt.Errorf("%w: need at least 2 layers, got %d", ErrConfiguration, len(layers))
	}
	last := len(layers) - 1
	for i, l := range layers {
		if l.Size <= 0 {
			return fmt.Errorf("%w: layer %d has size %d", ErrConfiguration, i, l.Size)
		}
		switch l.Type {
		case LayerInput:
			if i != 0 || i == last {
				return fmt.Errorf("%w: input layer at position %d", ErrConfiguration, i)
			}
		case LayerHidden:
			if i == 0 || i == last {
				return fmt.Errorf("%w: hidden layer at position %d", ErrConfiguration, i)
			}
			if l.Activation == nil {
				return fmt.Errorf("%w: hidden layer %d has no activation", ErrConfiguration, i)
			}
			if _, err := l.Activation.Pointwise(); err != nil {
				return fmt.Errorf("hidden layer %d: %w", i, err)
			}
		case LayerOutput:
			if i != last || i == 0 {
				return fmt.Errorf("%w: output layer at position %d", ErrConfiguration, i)
			}
			if l.Size != OutputSize {
				return fmt.Errorf("%w: output layer size %d, expected %d", ErrConfiguration, l.Size, OutputSize)
			}
			if l.Activation == nil || l.Activation.Method != ActivationSoftmax {
				return fmt.Errorf("%w: output layer must use softmax", ErrConfiguration)
			}
		default:
			return fmt.Errorf("%w: layer type %q", ErrUnknownVariant, l.Type)
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (l Layer) String() string {
	switch l.Type {
	case LayerInput:
		return fmt.Sprintf("(Input, %d)", l.Size)
	case LayerHidden, LayerOutput:
		name := "Hidden"
		if l.Type == LayerOutput {
			name = "Output"
		}
		if l.Activation == nil {
			return fmt.Sprintf("(%s, %d)", name, l.Size)
		}
		return fmt.Sprintf("(%s, %d, %s)", name, l.Size, l.Activation)
	default:
		return fmt.Sprintf("(%s, %d)", l.Type, l.Size)
	}
}
