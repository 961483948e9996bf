package nn

import (
	"fmt"
	"math"

	"github.com/corvvs/mlp/internal/tensor"
)

// Threshold is the positive-class probability at or above which a sample is
// predicted positive.
const Threshold = 0.5

// EpochMetrics summarizes one pass over a data set.
type EpochMetrics struct {
	Loss        float64 `json:"loss"`
	Accuracy    float64 `json:"accuracy"`
	Precision   float64 `json:"precision"`
	Recall      float64 `json:"recall"`
	Specificity float64 `json:"specificity"`
	F1Score     float64 `json:"f1Score"`
}

// Score returns the "lower is better" score of metric m: the loss itself,
// or 1 - value for the ratio metrics.
func (e EpochMetrics) Score(m Metric) (float64, error) {
	switch m {
	case MetricLoss:
		return e.Loss, nil
	case MetricAccuracy:
		return 1 - e.Accuracy, nil
	case MetricPrecision:
		return 1 - e.Precision, nil
	case MetricRecall:
		return 1 - e.Recall, nil
	case MetricF1Score:
		return 1 - e.F1Score, nil
	default:
		return 0, fmt.Errorf("%w: metric %q", ErrUnknownVariant, m)
	}
}

// LossResult is the outcome of ComputeLoss over one batch.
type LossResult struct {
	MeanLoss float64
	Correct  int
	TP       int
	TN       int
	FP       int
	FN       int
}

// Total returns the number of samples counted in r.
func (r LossResult) Total() int {
	return r.TP + r.TN + r.FP + r.FN
}

// AnswerVector returns the one-hot target [y, 1-y] for label y.
func AnswerVector(label float64) tensor.Vector {
	return tensor.Vector{label, 1 - label}
}

// ComputeLoss evaluates crit over a batch and tallies the confusion counts.
//
// answers holds one 0/1 label per row of outputs. The mean per-sample loss
// is reported with reg's penalty over weights added (reg may be nil).
// A non-finite loss fails with ErrNumericInstability.
func ComputeLoss(answers []float64, outputs tensor.Matrix, weights []tensor.Matrix, crit Criterion, reg Regularizer) (LossResult, error) {
	var res LossResult
	if len(answers) != len(outputs) {
		return res, fmt.Errorf("%w: %d answers for %d outputs", tensor.ErrShapeMismatch, len(answers), len(outputs))
	}

	losses := make(tensor.Vector, len(outputs))
	for i, out := range outputs {
		answer := AnswerVector(answers[i])
		l, err := crit.Loss(answer, out)
		if err != nil {
			return res, fmt.Errorf("sample %d: %w", i, err)
		}
		losses[i] = l

		actual := answers[i] == 1
		predicted := out[0] >= Threshold
		switch {
		case actual && predicted:
			res.TP++
		case !actual && !predicted:
			res.TN++
		case predicted:
			res.FP++
		default:
			res.FN++
		}
	}
	res.Correct = res.TP + res.TN

	if len(losses) > 0 {
		res.MeanLoss = tensor.Sum(losses) / float64(len(losses))
	}
	if reg != nil {
		res.MeanLoss += reg.Penalty(weights)
	}
	if math.IsNaN(res.MeanLoss) || math.IsInf(res.MeanLoss, 0) {
		return res, fmt.Errorf("%w: loss is %v", ErrNumericInstability, res.MeanLoss)
	}
	return res, nil
}

// ComputeMetrics derives the classification metrics from confusion counts.
//
// Each ratio is 0 when its denominator is 0.
func ComputeMetrics(loss float64, tp, tn, fp, fn int) EpochMetrics {
	ratio := func(num, den int) float64 {
		if den == 0 {
			return 0
		}
		return float64(num) / float64(den)
	}
	m := EpochMetrics{
		Loss:        loss,
		Accuracy:    ratio(tp+tn, tp+tn+fp+fn),
		Precision:   ratio(tp, tp+fp),
		Recall:      ratio(tp, tp+fn),
		Specificity: ratio(tn, tn+fp),
	}
	if m.Precision+m.Recall > 0 {
		m.F1Score = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
