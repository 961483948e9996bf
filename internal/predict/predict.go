// Package predict evaluates a trained model on a labelled data set.
package predict

import (
	"fmt"
	"io"

	"github.com/corvvs/mlp/internal/dataset"
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/parallel"
	"github.com/corvvs/mlp/internal/tensor"
)

// Class is the confusion-matrix cell of one prediction.
type Class string

// Confusion-matrix cells. The positive class is label 1.
const (
	TruePositive  Class = "TP"
	TrueNegative  Class = "TN"
	FalsePositive Class = "FP"
	FalseNegative Class = "FN"
)

// Row is the prediction for one input row.
type Row struct {
	ID        int // 1-based position in the input
	Answer    int
	Predicted int
	Class     Class
	// PPositive and PNegative are the two softmax outputs.
	PPositive float64
	PNegative float64
}

// Correct reports whether the prediction matches the answer.
func (r Row) Correct() bool {
	return r.Answer == r.Predicted
}

// Report is the outcome of Run.
type Report struct {
	Rows    []Row
	Correct int
	Metrics nn.EpochMetrics
}

type options struct {
	parallel parallel.Config
}

// Option configures Run.
type Option func(*options)

// WithParallel sets how rows are spread over goroutines. The default is
// parallel.DefaultConfig().
func WithParallel(cfg parallel.Config) Option {
	return func(o *options) { o.parallel = cfg }
}

// Run standardizes set with the scale factors stored in the model's input
// layer, runs the forward pass and scores every row. The loss is the model's
// loss function without regularization.
//
// Rows are independent, so the forward pass may be split across goroutines;
// each chunk writes only its own rows and the result does not depend on the
// split.
func Run(model *nn.Model, set dataset.Set, opts ...Option) (*Report, error) {
	o := options{parallel: parallel.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: empty data set", dataset.ErrFormat)
	}
	if len(set.Features) != set.Len() {
		return nil, fmt.Errorf("%w: %d feature rows, %d labels", tensor.ErrShapeMismatch, len(set.Features), set.Len())
	}
	crit, err := model.LossFunction.Criterion()
	if err != nil {
		return nil, err
	}

	scaled, err := dataset.Apply(set, model.Layers[0].ScaleFactors)
	if err != nil {
		return nil, err
	}

	outputs := make(tensor.Matrix, scaled.Len())
	err = parallel.ForChunksErr(scaled.Len(), func(start, end int) error {
		fwd, err := nn.Forward(scaled.Features[start:end], model)
		if err != nil {
			return fmt.Errorf("rows %d-%d: %w", start+1, end, err)
		}
		copy(outputs[start:end], fwd.Output())
		return nil
	}, o.parallel)
	if err != nil {
		return nil, err
	}

	loss, err := nn.ComputeLoss(scaled.Labels, outputs, nil, crit, nil)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Rows:    make([]Row, len(outputs)),
		Correct: loss.Correct,
		Metrics: nn.ComputeMetrics(loss.MeanLoss, loss.TP, loss.TN, loss.FP, loss.FN),
	}
	for i, out := range outputs {
		rep.Rows[i] = classify(i+1, set.Labels[i], out)
	}
	return rep, nil
}

func classify(id int, label float64, out tensor.Vector) Row {
	r := Row{ID: id, PPositive: out[0], PNegative: out[1]}
	if label == 1 {
		r.Answer = 1
	}
	if out[0] >= nn.Threshold {
		r.Predicted = 1
	}
	switch {
	case r.Answer == 1 && r.Predicted == 1:
		r.Class = TruePositive
	case r.Answer == 0 && r.Predicted == 0:
		r.Class = TrueNegative
	case r.Predicted == 1:
		r.Class = FalsePositive
	default:
		r.Class = FalseNegative
	}
	return r
}

// Print writes the misclassified rows (every row when all is set) followed
// by a summary line. Label 1 is shown as M and label 0 as B.
func (r *Report) Print(w io.Writer, all bool) error {
	name := func(label int) string {
		if label == 1 {
			return "M"
		}
		return "B"
	}
	if _, err := fmt.Fprintf(w, "%-6s %4s %4s %4s %5s %5s %5s\n", "Result", "ID", "Ans", "Pred", "Class", "P(M)", "P(B)"); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if row.Correct() && !all {
			continue
		}
		result := "[KO]"
		if row.Correct() {
			result = "[ok]"
		}
		if _, err := fmt.Fprintf(w, "%-6s %4d %4s %4s %5s %1.3f %1.3f\n",
			result, row.ID, name(row.Answer), name(row.Predicted), row.Class, row.PPositive, row.PNegative); err != nil {
			return err
		}
	}
	m := r.Metrics
	_, err := fmt.Fprintf(w, "Loss: %1.4f, Accuracy: %d / %d = %1.2f%%, Precision: %1.2f%%, Recall: %1.2f%%, Specificity: %1.2f%%, F1: %1.4f\n",
		m.Loss, r.Correct, len(r.Rows), m.Accuracy*100, m.Precision*100, m.Recall*100, m.Specificity*100, m.F1Score)
	return err
}
