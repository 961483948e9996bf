package optim

import (
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/tensor"
)

// SGD implements plain stochastic gradient descent.
//
// Update rule:
//
//	param = param - lr * gradient
//
// SGD keeps no state; it only checks that the gradients match the layer
// boundary it was built for.
//
// Example:
//
//	sgd, err := optim.NewSGD(optim.SGDConfig{LR: 0.01}, model.Layers)
type SGD struct {
	lr     float64
	shapes buffers
}

// SGDConfig holds configuration for SGD.
type SGDConfig struct {
	LR float64 // Learning rate; 0 leaves parameters unchanged
}

// NewSGD creates an SGD optimizer for the given layers.
func NewSGD(config SGDConfig, layers []nn.Layer) (*SGD, error) {
	if err := validateLR(config.LR); err != nil {
		return nil, err
	}
	shapes, err := newBuffers(layers)
	if err != nil {
		return nil, err
	}
	return &SGD{lr: config.LR, shapes: shapes}, nil
}

// Update applies param -= lr * gradient to w and b.
func (s *SGD) Update(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int) error {
	if err := s.shapes.check(w, b, dW, db, k); err != nil {
		return err
	}
	if err := tensor.AddScaledMatX(w, -s.lr, dW); err != nil {
		return err
	}
	return tensor.AddScaledVecX(b, -s.lr, db)
}

// GetLR returns the learning rate.
func (s *SGD) GetLR() float64 { return s.lr }

// MomentumSGD implements gradient descent with a velocity term.
//
// Update rule:
//
//	velocity = alpha * velocity - lr * gradient
//	param = param + velocity
//
// The velocity of every weight and bias starts at zero.
type MomentumSGD struct {
	lr       float64
	alpha    float64
	velocity buffers
}

// MomentumConfig holds configuration for MomentumSGD.
type MomentumConfig struct {
	LR    float64 // Learning rate
	Alpha float64 // Momentum factor, range [0, 1)
}

// NewMomentumSGD creates a MomentumSGD optimizer for the given layers.
func NewMomentumSGD(config MomentumConfig, layers []nn.Layer) (*MomentumSGD, error) {
	if err := validateLR(config.LR); err != nil {
		return nil, err
	}
	if err := validateDecay("alpha", config.Alpha); err != nil {
		return nil, err
	}
	velocity, err := newBuffers(layers)
	if err != nil {
		return nil, err
	}
	return &MomentumSGD{lr: config.LR, alpha: config.Alpha, velocity: velocity}, nil
}

// Update advances the velocity of boundary k and adds it to w and b.
func (m *MomentumSGD) Update(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int) error {
	if err := m.velocity.check(w, b, dW, db, k); err != nil {
		return err
	}
	for i := range w {
		m.step(w[i], dW[i], m.velocity.w[k][i])
	}
	m.step(b, db, m.velocity.b[k])
	return nil
}

func (m *MomentumSGD) step(p, g, v tensor.Vector) {
	for i := range p {
		v[i] = m.alpha*v[i] - m.lr*g[i]
		p[i] += v[i]
	}
}

// GetLR returns the learning rate.
func (m *MomentumSGD) GetLR() float64 { return m.lr }
