package optim

import (
	"math"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSProp and momentum:
//   - Maintains exponential moving averages of gradients (first moment)
//   - Maintains exponential moving averages of squared gradients (second moment)
//   - Applies bias correction to compensate for initialization at zero
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)   // Parameter update
//
// The step counter t is kept per layer boundary and advances once per
// Update call, shared by the weights and biases of that boundary.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Example:
//
//	adam, err := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	}, model.Layers)
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     []int   // Step counter per layer boundary
	m     buffers // First moment estimates
	v     buffers // Second moment estimates
}

// AdamConfig holds configuration for Adam.
type AdamConfig struct {
	LR    float64    // Learning rate
	Betas [2]float64 // Coefficients for computing running averages, range [0, 1)
	Eps   float64    // Term for numerical stability, must be positive
}

// NewAdam creates an Adam optimizer for the given layers.
func NewAdam(config AdamConfig, layers []nn.Layer) (*Adam, error) {
	if err := validateLR(config.LR); err != nil {
		return nil, err
	}
	if err := validateDecay("beta1", config.Betas[0]); err != nil {
		return nil, err
	}
	if err := validateDecay("beta2", config.Betas[1]); err != nil {
		return nil, err
	}
	if err := validateEps(config.Eps); err != nil {
		return nil, err
	}
	m, err := newBuffers(layers)
	if err != nil {
		return nil, err
	}
	v, err := newBuffers(layers)
	if err != nil {
		return nil, err
	}
	return &Adam{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
		t:     make([]int, len(m.w)),
		m:     m,
		v:     v,
	}, nil
}

// Update performs one Adam step on boundary k.
func (a *Adam) Update(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int) error {
	return a.update(w, b, dW, db, k, 0)
}

// update performs one Adam step, additionally shrinking the weights by
// lr * decay * w. Biases are never decayed.
func (a *Adam) update(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int, decay float64) error {
	if err := a.m.check(w, b, dW, db, k); err != nil {
		return err
	}
	a.t[k]++
	t := float64(a.t[k])
	biasCorrection1 := 1 - math.Pow(a.beta1, t)
	biasCorrection2 := 1 - math.Pow(a.beta2, t)

	for i := range w {
		a.step(w[i], dW[i], a.m.w[k][i], a.v.w[k][i], biasCorrection1, biasCorrection2, decay)
	}
	a.step(b, db, a.m.b[k], a.v.b[k], biasCorrection1, biasCorrection2, 0)
	return nil
}

func (a *Adam) step(p, g, m, v tensor.Vector, bc1, bc2, decay float64) {
	for i := range p {
		m[i] = a.beta1*m[i] + (1-a.beta1)*g[i]
		v[i] = a.beta2*v[i] + (1-a.beta2)*g[i]*g[i]
		mHat := m[i] / bc1
		vHat := v[i] / bc2
		p[i] -= a.lr * (mHat/(math.Sqrt(vHat)+a.eps) + decay*p[i])
	}
}

// GetLR returns the learning rate.
func (a *Adam) GetLR() float64 { return a.lr }

// AdamW implements Adam with decoupled weight decay.
//
// Update rule (weights):
//
//	param = param - lr * (m_hat / (sqrt(v_hat) + eps) + weightDecay * param)
//
// The decay term uses the weights as they were before the step and is not
// folded into the gradient, so it never enters the moment estimates. Biases
// follow plain Adam.
//
// Reference: "Decoupled Weight Decay Regularization" (Loshchilov & Hutter, 2019)
type AdamW struct {
	adam        *Adam
	weightDecay float64
}

// AdamWConfig holds configuration for AdamW.
type AdamWConfig struct {
	AdamConfig
	WeightDecay float64 // Decoupled decay coefficient, must not be negative
}

// NewAdamW creates an AdamW optimizer for the given layers.
func NewAdamW(config AdamWConfig, layers []nn.Layer) (*AdamW, error) {
	if err := validateWeightDecay(config.WeightDecay); err != nil {
		return nil, err
	}
	adam, err := NewAdam(config.AdamConfig, layers)
	if err != nil {
		return nil, err
	}
	return &AdamW{adam: adam, weightDecay: config.WeightDecay}, nil
}

// Update performs one AdamW step on boundary k.
func (a *AdamW) Update(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int) error {
	return a.adam.update(w, b, dW, db, k, a.weightDecay)
}

// GetLR returns the learning rate.
func (a *AdamW) GetLR() float64 { return a.adam.lr }
