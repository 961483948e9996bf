package nn

import (
	"fmt"
	"math"

	"github.com/corvvs/mlp/internal/tensor"
)

// ActivationMethod tags an Activation descriptor.
type ActivationMethod string

// Activation methods. Softmax is only valid on the output layer.
const (
	ActivationLinear    ActivationMethod = "linear"
	ActivationSigmoid   ActivationMethod = "sigmoid"
	ActivationTanh      ActivationMethod = "tanh"
	ActivationReLU      ActivationMethod = "ReLU"
	ActivationLeakyReLU ActivationMethod = "LeakyReLU"
	ActivationSoftmax   ActivationMethod = "softmax"
)

// DefaultLeakyReLUAlpha is the negative slope used when none is given.
const DefaultLeakyReLUAlpha = 0.01

// Activation describes a layer's nonlinearity. Alpha is used by LeakyReLU only.
type Activation struct {
	Method ActivationMethod `json:"method"`
	Alpha  float64          `json:"alpha,omitempty"`
}

// String implements fmt.Stringer.
func (a Activation) String() string {
	if a.Method == ActivationLeakyReLU {
		return fmt.Sprintf("LeakyReLU(%g)", a.Alpha)
	}
	return string(a.Method)
}

// Pointwise is a scalar activation function with its derivative, both
// evaluated at the pre-activation value.
type Pointwise interface {
	Apply(x float64) float64
	Derivative(x float64) float64
}

// Pointwise resolves a to its implementation.
//
// Softmax is vector-valued and has no pointwise form; asking for it is a
// configuration error. Its gradient is folded into the loss gradient at the
// output layer (see Backward).
func (a Activation) Pointwise() (Pointwise, error) {
	switch a.Method {
	case ActivationLinear:
		return Linear{}, nil
	case ActivationSigmoid:
		return Sigmoid{}, nil
	case ActivationTanh:
		return Tanh{}, nil
	case ActivationReLU:
		return ReLU{}, nil
	case ActivationLeakyReLU:
		return LeakyReLU{Alpha: a.Alpha}, nil
	case ActivationSoftmax:
		return nil, fmt.Errorf("%w: softmax has no pointwise form", ErrConfiguration)
	default:
		return nil, fmt.Errorf("%w: activation %q", ErrUnknownVariant, a.Method)
	}
}

// Linear is the identity: f(x) = x.
type Linear struct{}

// Apply returns x.
func (Linear) Apply(x float64) float64 { return x }

// Derivative returns 1.
func (Linear) Derivative(float64) float64 { return 1 }

// Sigmoid is the logistic function: σ(x) = 1 / (1 + exp(-x)).
type Sigmoid struct{}

// Apply returns σ(x).
func (Sigmoid) Apply(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// Derivative returns σ(x)(1 - σ(x)).
func (s Sigmoid) Derivative(x float64) float64 {
	fx := s.Apply(x)
	return fx * (1 - fx)
}

// Tanh is the hyperbolic tangent.
type Tanh struct{}

// Apply returns tanh(x).
func (Tanh) Apply(x float64) float64 { return math.Tanh(x) }

// Derivative returns 1 - tanh²(x).
func (Tanh) Derivative(x float64) float64 {
	fx := math.Tanh(x)
	return 1 - fx*fx
}

// ReLU is max(0, x). Its derivative at 0 is taken as 1.
type ReLU struct{}

// Apply returns max(0, x).
func (ReLU) Apply(x float64) float64 { return math.Max(0, x) }

// Derivative returns 1 for x >= 0 and 0 otherwise.
func (ReLU) Derivative(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return 0
}

// LeakyReLU is x for x >= 0 and Alpha·x otherwise.
type LeakyReLU struct {
	Alpha float64
}

// Apply returns x or Alpha·x.
func (l LeakyReLU) Apply(x float64) float64 {
	if x >= 0 {
		return x
	}
	return l.Alpha * x
}

// Derivative returns 1 or Alpha.
func (l LeakyReLU) Derivative(x float64) float64 {
	if x >= 0 {
		return 1
	}
	return l.Alpha
}

// Softmax returns exp(z_i - max z) / Σ exp(z_j - max z).
//
// Subtracting the maximum keeps every exponent ≤ 0, so the result is finite
// for any finite input.
func Softmax(z tensor.Vector) tensor.Vector {
	if len(z) == 0 {
		return tensor.Vector{}
	}
	maxZ := z[0]
	for _, v := range z[1:] {
		if v > maxZ {
			maxZ = v
		}
	}
	out := make(tensor.Vector, len(z))
	for i, v := range z {
		out[i] = math.Exp(v - maxZ)
	}
	tensor.ScaleVecX(out, 1/tensor.Sum(out))
	return out
}
