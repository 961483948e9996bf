package nn

import (
	"fmt"

	"github.com/corvvs/mlp/internal/tensor"
)

// Regularizer adds a weight penalty to the loss and its gradient to dW.
type Regularizer interface {
	// Penalty returns the term added to the mean loss.
	Penalty(weights []tensor.Matrix) float64
	// Gradient returns the contribution of one weight matrix to its gradient.
	Gradient(w tensor.Matrix) tensor.Matrix
}

// Regularizer resolves r to its implementation. A nil descriptor yields a
// nil Regularizer.
func (r *Regularization) Regularizer() (Regularizer, error) {
	if r == nil {
		return nil, nil
	}
	switch r.Method {
	case RegularizationL2:
		if r.Lambda < 0 {
			return nil, fmt.Errorf("%w: L2 lambda %g is negative", ErrConfiguration, r.Lambda)
		}
		return L2{Lambda: r.Lambda}, nil
	default:
		return nil, fmt.Errorf("%w: regularization %q", ErrUnknownVariant, r.Method)
	}
}

// L2 is the squared-weight penalty λ/2·ΣW². Biases are not penalized.
//
// Gradient is λ·W, the exact derivative of Penalty. Backward adds it after
// averaging the data gradient over the batch, so it is not divided by the
// batch size.
type L2 struct {
	Lambda float64
}

// Penalty returns λ/2 · Σ over all matrices of ΣW².
func (l L2) Penalty(weights []tensor.Matrix) float64 {
	norms := make(tensor.Vector, len(weights))
	for i, w := range weights {
		norms[i] = tensor.SquaredNormMat(w)
	}
	return l.Lambda / 2 * tensor.Sum(norms)
}

// Gradient returns λ·W.
func (l L2) Gradient(w tensor.Matrix) tensor.Matrix {
	return tensor.ScaleMat(w, l.Lambda)
}
