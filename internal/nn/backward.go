package nn

import (
	"fmt"
	"math"

	"github.com/corvvs/mlp/internal/tensor"
)

// MaxGradNorm bounds the joint L2 norm of each layer's (dW, db).
const MaxGradNorm = 5.0

// Updater applies one optimization step to the parameters of layer boundary
// k, mutating w and b in place.
//
// The optim package provides the implementations.
type Updater interface {
	Update(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int) error
}

// Gradient is the gradient of the loss with respect to one LayerParameter.
type Gradient struct {
	DW tensor.Matrix
	DB tensor.Vector
}

// Backward computes the gradients of a batch and hands them to updater,
// from the last layer boundary to the first.
//
// Every gradient is computed from the parameters as they were before this
// call; only then are the updates applied.
func Backward(answers []float64, model *Model, batchSize int, fwd *ForwardResult, updater Updater, reg Regularizer) error {
	grads, err := Gradients(answers, model, batchSize, fwd, reg)
	if err != nil {
		return err
	}
	for k := len(grads) - 1; k >= 0; k-- {
		p := model.Parameters[k]
		if err := updater.Update(p.Weights, p.Biases, grads[k].DW, grads[k].DB, k); err != nil {
			return fmt.Errorf("update layer %d: %w", k+1, err)
		}
	}
	return nil
}

// Gradients returns the clipped, batch-averaged gradient of every layer
// boundary without modifying model.
//
// The output-layer error of a sample is the loss gradient against its
// answer; softmax is never differentiated on its own. At a hidden layer the
// error is f'(z) ⊙ (Wᵗ · next error). Per-sample errors accumulate into
// dW += error ⊗ aPrev and db += error, which are divided by batchSize. The
// regularization gradient is then added to dW and each (dW, db) is clipped
// to MaxGradNorm.
func Gradients(answers []float64, model *Model, batchSize int, fwd *ForwardResult, reg Regularizer) ([]Gradient, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size %d", ErrConfiguration, batchSize)
	}
	nLayers := len(model.Layers)
	if len(model.Parameters) != nLayers-1 {
		return nil, fmt.Errorf("%w: %d parameter sets for %d layers",
			tensor.ErrShapeMismatch, len(model.Parameters), nLayers)
	}
	if len(fwd.Activations) != nLayers || len(fwd.PreActivations) != nLayers {
		return nil, fmt.Errorf("%w: forward result has %d activations for %d layers",
			tensor.ErrShapeMismatch, len(fwd.Activations), nLayers)
	}
	output := fwd.Output()
	if len(answers) != len(output) {
		return nil, fmt.Errorf("%w: %d answers for %d outputs", tensor.ErrShapeMismatch, len(answers), len(output))
	}
	crit, err := model.LossFunction.Criterion()
	if err != nil {
		return nil, err
	}

	grads := make([]Gradient, len(model.Parameters))
	for k, p := range model.Parameters {
		if err := p.Weights.Validate(); err != nil {
			return nil, fmt.Errorf("layer %d weights: %w", k+1, err)
		}
		grads[k] = Gradient{DW: tensor.ZerosLike(p.Weights), DB: tensor.NewVector(len(p.Biases))}
	}

	// Layer errors are propagated sample by sample.
	for i := range output {
		delta, err := crit.Gradient(output[i], AnswerVector(answers[i]))
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		for k := len(model.Parameters) - 1; k >= 0; k-- {
			aPrev := fwd.Activations[k][i]
			if err := tensor.AddOuterX(grads[k].DW, delta, aPrev); err != nil {
				return nil, fmt.Errorf("layer %d, sample %d: %w", k+1, i, err)
			}
			if err := tensor.AddVecX(grads[k].DB, delta); err != nil {
				return nil, fmt.Errorf("layer %d, sample %d: %w", k+1, i, err)
			}
			if k == 0 {
				break
			}
			delta, err = hiddenError(model.Layers[k], model.Parameters[k].Weights, fwd.PreActivations[k][i], delta)
			if err != nil {
				return nil, fmt.Errorf("layer %d, sample %d: %w", k, i, err)
			}
		}
	}

	scale := 1 / float64(batchSize)
	for k := range grads {
		g := &grads[k]
		tensor.ScaleMatX(g.DW, scale)
		tensor.ScaleVecX(g.DB, scale)
		if reg != nil {
			if err := tensor.AddMatX(g.DW, reg.Gradient(model.Parameters[k].Weights)); err != nil {
				return nil, fmt.Errorf("layer %d regularization: %w", k+1, err)
			}
		}
		if !tensor.IsFiniteMat(g.DW) || !tensor.IsFinite(g.DB) {
			return nil, fmt.Errorf("%w: non-finite gradient at layer %d", ErrNumericInstability, k+1)
		}
		ClipGradients(g.DW, g.DB, MaxGradNorm)
	}
	return grads, nil
}

// hiddenError returns f'(z) ⊙ (Wᵗ · next) for hidden layer l, where W maps l
// to the next layer.
func hiddenError(l Layer, w tensor.Matrix, z, next tensor.Vector) (tensor.Vector, error) {
	if l.Type != LayerHidden || l.Activation == nil {
		return nil, fmt.Errorf("%w: %s layer inside the network", ErrConfiguration, l.Type)
	}
	f, err := l.Activation.Pointwise()
	if err != nil {
		return nil, err
	}
	back, err := tensor.MulTMatVec(w, next)
	if err != nil {
		return nil, err
	}
	return tensor.HadamardVec(tensor.Map(z, f.Derivative), back)
}

// ClipGradients rescales dW and db in place so that √(‖dW‖² + ‖db‖²) does
// not exceed maxNorm, keeping their direction. It returns the norm before
// clipping.
func ClipGradients(dW tensor.Matrix, db tensor.Vector, maxNorm float64) float64 {
	norm := math.Sqrt(tensor.SquaredNormMat(dW) + tensor.SquaredNorm(db))
	if norm > maxNorm {
		s := maxNorm / norm
		tensor.ScaleMatX(dW, s)
		tensor.ScaleVecX(db, s)
	}
	return norm
}
