// Package optim implements the stateful update rules used to train a model.
//
// This package provides:
//   - Optimizer interface: per-layer in-place parameter updates
//   - SGD and MomentumSGD
//   - AdaGrad and RMSProp
//   - Adam and AdamW (decoupled weight decay)
//
// An optimizer is built once per training run against the model's layer
// topology. Stateful variants allocate zeroed buffers shaped like every
// weight matrix and bias vector; the buffers live as long as the optimizer
// and are never persisted with the model.
//
// Example usage:
//
//	opt, err := optim.New(model.Optimization, model.Layers)
//	if err != nil {
//	    return err
//	}
//	// Backward calls opt.Update for each layer boundary.
//	err = nn.Backward(answers, model, len(answers), fwd, opt, reg)
package optim

import (
	"fmt"
	"math"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/tensor"
)

// Optimizer updates the parameters of one layer boundary in place.
//
// Update is given the weights w and biases b of boundary k together with
// their gradients. Gradients must match the shapes the optimizer was built
// for; a mismatch fails with tensor.ErrShapeMismatch before anything is
// modified.
type Optimizer interface {
	nn.Updater

	// GetLR returns the learning rate.
	GetLR() float64
}

// New builds the optimizer described by cfg for the given layers.
//
// Hyperparameters left at zero take the defaults of nn.Optimization.WithDefaults.
func New(cfg nn.Optimization, layers []nn.Layer) (Optimizer, error) {
	cfg, err := cfg.WithDefaults()
	if err != nil {
		return nil, err
	}
	switch cfg.Method {
	case nn.OptimizerSGD:
		return NewSGD(SGDConfig{LR: cfg.LearningRate}, layers)
	case nn.OptimizerMomentumSGD:
		return NewMomentumSGD(MomentumConfig{LR: cfg.LearningRate, Alpha: cfg.Alpha}, layers)
	case nn.OptimizerAdaGrad:
		return NewAdaGrad(AdaGradConfig{LR: cfg.LearningRate, Eps: cfg.Eps}, layers)
	case nn.OptimizerRMSProp:
		return NewRMSProp(RMSPropConfig{LR: cfg.LearningRate, Rho: cfg.Rho, Eps: cfg.Eps}, layers)
	case nn.OptimizerAdam:
		return NewAdam(AdamConfig{LR: cfg.LearningRate, Betas: [2]float64{cfg.Beta1, cfg.Beta2}, Eps: cfg.Eps}, layers)
	case nn.OptimizerAdamW:
		return NewAdamW(AdamWConfig{
			AdamConfig:  AdamConfig{LR: cfg.LearningRate, Betas: [2]float64{cfg.Beta1, cfg.Beta2}, Eps: cfg.Eps},
			WeightDecay: cfg.WeightDecay,
		}, layers)
	default:
		return nil, fmt.Errorf("%w: optimizer %q", nn.ErrUnknownVariant, cfg.Method)
	}
}

// buffers is one zeroed accumulator per layer boundary.
type buffers struct {
	w []tensor.Matrix
	b []tensor.Vector
}

func newBuffers(layers []nn.Layer) (buffers, error) {
	if len(layers) < 2 {
		return buffers{}, fmt.Errorf("%w: need at least 2 layers, got %d", nn.ErrConfiguration, len(layers))
	}
	n := len(layers) - 1
	bufs := buffers{w: make([]tensor.Matrix, n), b: make([]tensor.Vector, n)}
	for k := 0; k < n; k++ {
		in, out := layers[k].Size, layers[k+1].Size
		if in <= 0 || out <= 0 {
			return buffers{}, fmt.Errorf("%w: layer boundary %d has shape %dx%d", nn.ErrConfiguration, k, out, in)
		}
		bufs.w[k] = tensor.NewMatrix(out, in)
		bufs.b[k] = tensor.NewVector(out)
	}
	return bufs, nil
}

// check verifies that boundary k exists and that every operand of an update
// has the shape of its buffers.
func (bufs buffers) check(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int) error {
	if k < 0 || k >= len(bufs.w) {
		return fmt.Errorf("%w: layer index %d out of range [0, %d)", tensor.ErrShapeMismatch, k, len(bufs.w))
	}
	return checkShapes(bufs.w[k].Shape(), len(bufs.b[k]), w, b, dW, db)
}

func checkShapes(want tensor.Shape, nBias int, w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector) error {
	for _, m := range []tensor.Matrix{w, dW} {
		if err := m.Validate(); err != nil {
			return err
		}
		if got := m.Shape(); !got.Equal(want) {
			return fmt.Errorf("%w: update: matrix %v, expected %v", tensor.ErrShapeMismatch, got, want)
		}
	}
	if len(b) != nBias || len(db) != nBias {
		return fmt.Errorf("%w: update: biases %d and %d, expected %d", tensor.ErrShapeMismatch, len(b), len(db), nBias)
	}
	return nil
}

func validateLR(lr float64) error {
	if lr < 0 || math.IsNaN(lr) || math.IsInf(lr, 0) {
		return fmt.Errorf("%w: learning rate %g", nn.ErrConfiguration, lr)
	}
	return nil
}

// validateDecay checks a moving-average coefficient against [0, 1).
func validateDecay(name string, v float64) error {
	if !(v >= 0 && v < 1) {
		return fmt.Errorf("%w: %s %g must be in [0, 1)", nn.ErrConfiguration, name, v)
	}
	return nil
}

func validateEps(eps float64) error {
	if !(eps > 0) || math.IsInf(eps, 0) {
		return fmt.Errorf("%w: eps %g must be positive", nn.ErrConfiguration, eps)
	}
	return nil
}

func validateWeightDecay(wd float64) error {
	if !(wd >= 0) || math.IsInf(wd, 0) {
		return fmt.Errorf("%w: weight decay %g must not be negative", nn.ErrConfiguration, wd)
	}
	return nil
}
