package optim

import (
	"math"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/tensor"
)

// RMSProp scales each step by a moving average of squared gradients.
//
// Update rule:
//
//	r = rho * r + (1-rho) * gradient²
//	param = param - lr * gradient / sqrt(r + eps)
type RMSProp struct {
	lr  float64
	rho float64
	eps float64
	r   buffers
}

// RMSPropConfig holds configuration for RMSProp.
type RMSPropConfig struct {
	LR  float64 // Learning rate
	Rho float64 // Decay of the moving average, range [0, 1)
	Eps float64 // Added under the square root, must be positive
}

// NewRMSProp creates an RMSProp optimizer for the given layers.
func NewRMSProp(config RMSPropConfig, layers []nn.Layer) (*RMSProp, error) {
	if err := validateLR(config.LR); err != nil {
		return nil, err
	}
	if err := validateDecay("rho", config.Rho); err != nil {
		return nil, err
	}
	if err := validateEps(config.Eps); err != nil {
		return nil, err
	}
	r, err := newBuffers(layers)
	if err != nil {
		return nil, err
	}
	return &RMSProp{lr: config.LR, rho: config.Rho, eps: config.Eps, r: r}, nil
}

// Update advances the moving average of boundary k and steps w and b.
func (o *RMSProp) Update(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int) error {
	if err := o.r.check(w, b, dW, db, k); err != nil {
		return err
	}
	for i := range w {
		o.step(w[i], dW[i], o.r.w[k][i])
	}
	o.step(b, db, o.r.b[k])
	return nil
}

func (o *RMSProp) step(p, g, r tensor.Vector) {
	for i := range p {
		r[i] = o.rho*r[i] + (1-o.rho)*g[i]*g[i]
		p[i] -= o.lr * g[i] / math.Sqrt(r[i]+o.eps)
	}
}

// GetLR returns the learning rate.
func (o *RMSProp) GetLR() float64 { return o.lr }
