package nn

import (
	"fmt"
	"math"

	"github.com/corvvs/mlp/internal/tensor"
)

// Criterion is a per-sample loss over 2-vectors.
//
// answer is the one-hot target [y, 1-y]; pred is the softmax output. Both
// methods assume the output layer is softmax: Gradient is the derivative of
// the loss with respect to the output pre-activation, not the activation.
type Criterion interface {
	Loss(answer, pred tensor.Vector) (float64, error)
	Gradient(pred, answer tensor.Vector) (tensor.Vector, error)
}

// Criterion resolves l to its implementation.
func (l LossFunction) Criterion() (Criterion, error) {
	if !(l.Eps > 0 && l.Eps < 0.5) {
		return nil, fmt.Errorf("%w: loss eps %g must be in (0, 0.5)", ErrConfiguration, l.Eps)
	}
	switch l.Method {
	case LossCCE:
		return CrossEntropy{Eps: l.Eps}, nil
	case LossWeightedBCE:
		if l.PosWeight <= 0 || l.NegWeight <= 0 {
			return nil, fmt.Errorf("%w: class weights must be positive (pos=%g, neg=%g)",
				ErrConfiguration, l.PosWeight, l.NegWeight)
		}
		return WeightedBCE{PosWeight: l.PosWeight, NegWeight: l.NegWeight, Eps: l.Eps}, nil
	default:
		return nil, fmt.Errorf("%w: loss %q", ErrUnknownVariant, l.Method)
	}
}

// CrossEntropy is categorical cross-entropy with clamped probabilities:
//
//	L = -Σ y_i · log(clamp(p_i, eps, 1-eps))
type CrossEntropy struct {
	Eps float64
}

// Loss returns the clamped cross-entropy of pred against answer.
func (c CrossEntropy) Loss(answer, pred tensor.Vector) (float64, error) {
	if len(answer) != len(pred) {
		return 0, fmt.Errorf("%w: cross-entropy: answer %d, prediction %d", tensor.ErrShapeMismatch, len(answer), len(pred))
	}
	terms := make(tensor.Vector, len(pred))
	for i, p := range pred {
		terms[i] = -answer[i] * math.Log(clamp(p, c.Eps))
	}
	return tensor.Sum(terms), nil
}

// Gradient returns pred - answer, the softmax/cross-entropy output error.
func (c CrossEntropy) Gradient(pred, answer tensor.Vector) (tensor.Vector, error) {
	return tensor.SubVec(pred, answer)
}

// WeightedBCE is binary cross-entropy on the positive-class probability,
// scaled by a per-class weight:
//
//	w = PosWeight if y = 1, NegWeight otherwise
//	L = -w · (y·log(clamp(p0)) + (1-y)·log(clamp(1-p0)))
type WeightedBCE struct {
	PosWeight float64
	NegWeight float64
	Eps       float64
}

func (w WeightedBCE) weight(answer tensor.Vector) float64 {
	return answer[0]*w.PosWeight + (1-answer[0])*w.NegWeight
}

// Loss returns the weighted binary cross-entropy of pred against answer.
func (w WeightedBCE) Loss(answer, pred tensor.Vector) (float64, error) {
	if len(answer) != OutputSize || len(pred) != OutputSize {
		return 0, fmt.Errorf("%w: weighted BCE: answer %d, prediction %d", tensor.ErrShapeMismatch, len(answer), len(pred))
	}
	y := answer[0]
	p := clamp(pred[0], w.Eps)
	q := clamp(1-pred[0], w.Eps)
	return -w.weight(answer) * (y*math.Log(p) + (1-y)*math.Log(q)), nil
}

// Gradient returns (pred - answer)·w.
func (w WeightedBCE) Gradient(pred, answer tensor.Vector) (tensor.Vector, error) {
	diff, err := tensor.SubVec(pred, answer)
	if err != nil {
		return nil, err
	}
	if len(answer) == 0 {
		return diff, nil
	}
	tensor.ScaleVecX(diff, w.weight(answer))
	return diff, nil
}

func clamp(p, eps float64) float64 {
	return math.Min(math.Max(p, eps), 1-eps)
}
