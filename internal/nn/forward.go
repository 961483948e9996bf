package nn

import (
	"fmt"

	"github.com/corvvs/mlp/internal/tensor"
)

// ForwardResult holds every intermediate value of a forward pass.
//
// Activations[0] is the input batch and Activations[len-1] the softmax
// output. PreActivations is aligned with Activations; PreActivations[0] is
// empty because the input layer has no pre-activation. Row i of every matrix
// belongs to sample i.
type ForwardResult struct {
	Activations    []tensor.Matrix
	PreActivations []tensor.Matrix
}

// Output returns the activations of the output layer.
func (r *ForwardResult) Output() tensor.Matrix {
	return r.Activations[len(r.Activations)-1]
}

// Forward runs inputs (one sample per row, label excluded) through model.
//
// For each layer boundary k it computes z = W·a + b per sample, then applies
// the activation of layer k+1: its pointwise function for hidden layers,
// softmax for the output layer.
func Forward(inputs tensor.Matrix, model *Model) (*ForwardResult, error) {
	if len(model.Parameters) != len(model.Layers)-1 {
		return nil, fmt.Errorf("%w: %d parameter sets for %d layers",
			tensor.ErrShapeMismatch, len(model.Parameters), len(model.Layers))
	}

	res := &ForwardResult{
		Activations:    make([]tensor.Matrix, 0, len(model.Layers)),
		PreActivations: make([]tensor.Matrix, 0, len(model.Layers)),
	}
	res.Activations = append(res.Activations, inputs)
	res.PreActivations = append(res.PreActivations, tensor.Matrix{})

	a := inputs
	for k, p := range model.Parameters {
		if err := p.Weights.Validate(); err != nil {
			return nil, fmt.Errorf("layer %d weights: %w", k+1, err)
		}
		if len(p.Weights) != len(p.Biases) {
			return nil, fmt.Errorf("%w: layer %d: %d weight rows, %d biases",
				tensor.ErrShapeMismatch, k+1, len(p.Weights), len(p.Biases))
		}
		act, err := layerActivation(model.Layers[k+1])
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", k+1, err)
		}

		z := make(tensor.Matrix, len(a))
		next := make(tensor.Matrix, len(a))
		for i, row := range a {
			zi, err := tensor.MulMatVec(p.Weights, row)
			if err != nil {
				return nil, fmt.Errorf("layer %d, sample %d: %w", k+1, i, err)
			}
			if err := tensor.AddVecX(zi, p.Biases); err != nil {
				return nil, fmt.Errorf("layer %d, sample %d: %w", k+1, i, err)
			}
			z[i] = zi
			next[i] = act(zi)
		}
		res.PreActivations = append(res.PreActivations, z)
		res.Activations = append(res.Activations, next)
		a = next
	}
	return res, nil
}

// layerActivation returns the vector function applied at layer l.
func layerActivation(l Layer) (func(tensor.Vector) tensor.Vector, error) {
	switch l.Type {
	case LayerHidden:
		if l.Activation == nil {
			return nil, fmt.Errorf("%w: hidden layer without activation", ErrConfiguration)
		}
		f, err := l.Activation.Pointwise()
		if err != nil {
			return nil, err
		}
		return func(z tensor.Vector) tensor.Vector { return tensor.Map(z, f.Apply) }, nil
	case LayerOutput:
		return Softmax, nil
	case LayerInput:
		return nil, fmt.Errorf("%w: input layer past position 0", ErrConfiguration)
	default:
		return nil, fmt.Errorf("%w: layer type %q", ErrUnknownVariant, l.Type)
	}
}
