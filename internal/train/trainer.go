// Package train drives the epoch and batch loop of a training run and keeps
// the best model seen on the validation set.
package train

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/corvvs/mlp/internal/dataset"
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/optim"
	"github.com/corvvs/mlp/internal/random"
)

// EpochSink receives the metrics of every finished epoch.
type EpochSink interface {
	RecordEpoch(epoch int, train, val nn.EpochMetrics) error
}

// Result is the outcome of Run.
type Result struct {
	// Model is the best snapshot with the complete metric history of the
	// run attached.
	Model *nn.Model
	// Epochs is the number of epochs that ran.
	Epochs int
	// Stop is nil when the run used all of MaxEpochs.
	Stop *StopReason
}

// Trainer trains one model. It is not safe for concurrent use.
type Trainer struct {
	model  *nn.Model
	logger *slog.Logger
	rng    *random.Rand
	sinks  []EpochSink
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithLogger sets the logger used for per-epoch records. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(t *Trainer) { t.logger = l }
}

// WithRand sets the random source used for shuffling. The default is
// random.New(model.Seed).
func WithRand(rng *random.Rand) Option {
	return func(t *Trainer) { t.rng = rng }
}

// WithSink adds a receiver of per-epoch metrics.
func WithSink(s EpochSink) Option {
	return func(t *Trainer) { t.sinks = append(t.sinks, s) }
}

// New returns a Trainer for model. The model is trained in place.
func New(model *nn.Model, opts ...Option) *Trainer {
	t := &Trainer{model: model}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if t.rng == nil {
		t.rng = random.New(model.Seed)
	}
	return t
}

// Run trains for at most model.MaxEpochs epochs.
//
// Each epoch shuffles trainSet, runs Forward, ComputeLoss and Backward on
// every batch, scores valSet, appends both metrics to the model history and
// consults the early-stopping monitor. Batch losses are measured before the
// batch's update.
//
// ctx is checked between epochs only. When it is done, Run returns the
// result so far together with ctx.Err().
func (t *Trainer) Run(ctx context.Context, trainSet, valSet dataset.Set) (*Result, error) {
	model := t.model
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	if trainSet.Len() == 0 {
		return nil, fmt.Errorf("%w: empty training set", nn.ErrConfiguration)
	}
	crit, err := model.LossFunction.Criterion()
	if err != nil {
		return nil, err
	}
	reg, err := model.Regularization.Regularizer()
	if err != nil {
		return nil, err
	}
	opt, err := optim.New(model.Optimization, model.Layers)
	if err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}
	monitor, err := NewMonitor(model.EarlyStopping)
	if err != nil {
		return nil, err
	}

	t.logger.Info("training started",
		"train", trainSet.Len(), "validation", valSet.Len(),
		"epochs", model.MaxEpochs, "batch", model.BatchSize,
		"optimizer", model.Optimization.String())

	best := NewSnapshot()
	res := &Result{}
	for epoch := 1; epoch <= model.MaxEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			res.Model = t.merge(best)
			return res, err
		}

		trainMetrics, err := t.epoch(trainSet, crit, reg, opt)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		valMetrics, err := evaluate(model, valSet, crit, reg)
		if err != nil {
			return nil, fmt.Errorf("epoch %d validation: %w", epoch, err)
		}
		model.TrainMetrics = append(model.TrainMetrics, trainMetrics)
		model.ValMetrics = append(model.ValMetrics, valMetrics)
		res.Epochs = epoch

		for _, s := range t.sinks {
			if err := s.RecordEpoch(epoch, trainMetrics, valMetrics); err != nil {
				return nil, fmt.Errorf("epoch %d: record: %w", epoch, err)
			}
		}

		stop, err := monitor.Check(model, best, epoch, valMetrics)
		if err != nil {
			return nil, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		t.logger.Debug("epoch",
			"epoch", epoch,
			"train_loss", trainMetrics.Loss, "val_loss", valMetrics.Loss,
			"train_acc", trainMetrics.Accuracy, "val_acc", valMetrics.Accuracy,
			"state", monitor.State().String(), "deteriorations", monitor.Deteriorations())
		if stop != nil {
			t.logger.Info("early stopping", "epoch", epoch, "kind", string(stop.Kind), "best_epoch", best.Epoch)
			res.Stop = stop
			break
		}
	}

	res.Model = t.merge(best)
	t.logger.Info("training finished", "epochs", res.Epochs, "best_epoch", res.Model.BestEpoch)
	return res, nil
}

// epoch runs one pass of mini-batch updates over s.
func (t *Trainer) epoch(s dataset.Set, crit nn.Criterion, reg nn.Regularizer, opt optim.Optimizer) (nn.EpochMetrics, error) {
	model := t.model
	var acc tally
	for _, idx := range batches(s.Len(), model.BatchSize, t.rng) {
		batch := s.Subset(idx)
		fwd, err := nn.Forward(batch.Features, model)
		if err != nil {
			return nn.EpochMetrics{}, err
		}
		loss, err := nn.ComputeLoss(batch.Labels, fwd.Output(), model.Weights(), crit, reg)
		if err != nil {
			return nn.EpochMetrics{}, err
		}
		acc.add(loss, batch.Len())
		if err := nn.Backward(batch.Labels, model, batch.Len(), fwd, opt, reg); err != nil {
			return nn.EpochMetrics{}, err
		}
	}
	return acc.metrics(), nil
}

// merge returns the best snapshot carrying the full history of the run.
// Before any epoch has been scored it returns a copy of the current model.
func (t *Trainer) merge(best *Snapshot) *nn.Model {
	out := best.Model
	if out == nil {
		out = t.model.Clone()
	} else {
		out = out.Clone()
	}
	out.TrainMetrics = append([]nn.EpochMetrics{}, t.model.TrainMetrics...)
	out.ValMetrics = append([]nn.EpochMetrics{}, t.model.ValMetrics...)
	return out
}
