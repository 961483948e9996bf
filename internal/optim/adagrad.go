package optim

import (
	"math"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/tensor"
)

// AdaGrad scales each step by the accumulated squared gradients.
//
// Update rule:
//
//	G = G + gradient²
//	param = param - lr * gradient / sqrt(G + eps)
type AdaGrad struct {
	lr  float64
	eps float64
	g   buffers
}

// AdaGradConfig holds configuration for AdaGrad.
type AdaGradConfig struct {
	LR  float64 // Learning rate
	Eps float64 // Added under the square root, must be positive
}

// NewAdaGrad creates an AdaGrad optimizer for the given layers.
func NewAdaGrad(config AdaGradConfig, layers []nn.Layer) (*AdaGrad, error) {
	if err := validateLR(config.LR); err != nil {
		return nil, err
	}
	if err := validateEps(config.Eps); err != nil {
		return nil, err
	}
	g, err := newBuffers(layers)
	if err != nil {
		return nil, err
	}
	return &AdaGrad{lr: config.LR, eps: config.Eps, g: g}, nil
}

// Update accumulates the squared gradients of boundary k and steps w and b.
func (a *AdaGrad) Update(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int) error {
	if err := a.g.check(w, b, dW, db, k); err != nil {
		return err
	}
	for i := range w {
		a.step(w[i], dW[i], a.g.w[k][i])
	}
	a.step(b, db, a.g.b[k])
	return nil
}

func (a *AdaGrad) step(p, grad, g tensor.Vector) {
	for i := range p {
		g[i] += grad[i] * grad[i]
		p[i] -= a.lr * grad[i] / math.Sqrt(g[i]+a.eps)
	}
}

// GetLR returns the learning rate.
func (a *AdaGrad) GetLR() float64 { return a.lr }
