package train_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvvs/mlp/internal/dataset"
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/optim"
	"github.com/corvvs/mlp/internal/random"
	"github.com/corvvs/mlp/internal/tensor"
	"github.com/corvvs/mlp/internal/train"
)

var (
	fiveRows = dataset.Set{
		Features: tensor.Matrix{
			{0.2, -1.1, 0.5, 1.3},
			{-0.7, 0.4, -1.2, 0.1},
			{1.5, 0.9, 0.3, -0.6},
			{-1.3, -0.2, 0.8, -1.4},
			{0.4, 1.6, -0.9, 0.7},
		},
		Labels: []float64{1, 0, 1, 0, 1},
	}
	twoRows = dataset.Set{
		Features: tensor.Matrix{{0.1, 0.2, 0.3, 0.4}, {-0.4, -0.3, -0.2, -0.1}},
		Labels:   []float64{1, 0},
	}
)

func fourFeatureModel(t *testing.T, opt nn.Optimization, epochs, batch int) *nn.Model {
	t.Helper()
	cfg := nn.DefaultConfig()
	cfg.ScaleFactors = make([]*nn.ScaleFactor, 4)
	cfg.HiddenSizes = []int{3}
	cfg.Activation = nn.Activation{Method: nn.ActivationReLU}
	cfg.Seed = 42
	cfg.MaxEpochs = epochs
	cfg.BatchSize = batch
	cfg.Optimization = opt
	m, err := nn.NewModel(cfg, nil)
	require.NoError(t, err)
	return m
}

func TestRunIsReproducible(t *testing.T) {
	sgd := nn.Optimization{Method: nn.OptimizerSGD, LearningRate: 0.1}
	run := func() (*nn.Model, *train.Result) {
		m := fourFeatureModel(t, sgd, 1, 0)
		res, err := train.New(m).Run(context.Background(), fiveRows, twoRows)
		require.NoError(t, err)
		return m, res
	}

	m1, r1 := run()
	m2, r2 := run()
	assert.Equal(t, m1.Parameters, m2.Parameters)
	require.Len(t, r1.Model.TrainMetrics, 1)
	assert.Equal(t, r1.Model.TrainMetrics[0].Loss, r2.Model.TrainMetrics[0].Loss)
	assert.Equal(t, r1.Model.ValMetrics, r2.Model.ValMetrics)

	// The parameters changed.
	initial := fourFeatureModel(t, sgd, 1, 0)
	assert.NotEqual(t, initial.Parameters, m1.Parameters)
}

func TestRunFullBatchEpochMatchesManualStep(t *testing.T) {
	sgd := nn.Optimization{Method: nn.OptimizerSGD, LearningRate: 0.1}
	m := fourFeatureModel(t, sgd, 1, 0)
	want := m.Clone()

	res, err := train.New(m).Run(context.Background(), fiveRows, twoRows)
	require.NoError(t, err)

	crit, err := want.LossFunction.Criterion()
	require.NoError(t, err)
	fwd, err := nn.Forward(fiveRows.Features, want)
	require.NoError(t, err)
	loss, err := nn.ComputeLoss(fiveRows.Labels, fwd.Output(), want.Weights(), crit, nil)
	require.NoError(t, err)
	opt, err := optim.New(want.Optimization, want.Layers)
	require.NoError(t, err)
	require.NoError(t, nn.Backward(fiveRows.Labels, want, fiveRows.Len(), fwd, opt, nil))

	assert.InDelta(t, loss.MeanLoss, res.Model.TrainMetrics[0].Loss, 1e-12)
	for k := range want.Parameters {
		for i := range want.Parameters[k].Weights {
			assert.InDeltaSlice(t, want.Parameters[k].Weights[i], m.Parameters[k].Weights[i], 1e-12)
		}
		assert.InDeltaSlice(t, want.Parameters[k].Biases, m.Parameters[k].Biases, 1e-12)
	}
	assert.Equal(t, 1, res.Model.BestEpoch)
	assert.Equal(t, 1, res.Epochs)
	assert.Nil(t, res.Stop)
}

func separable(n int, rng *random.Rand) dataset.Set {
	var s dataset.Set
	for i := 0; i < n; i++ {
		x := rng.Uniform(-1, 1)
		y := rng.Uniform(-1, 1)
		label := 0.0
		if x+y > 0 {
			label = 1
		}
		s.Features = append(s.Features, tensor.Vector{x, y})
		s.Labels = append(s.Labels, label)
	}
	return s
}

func TestRunLearnsSeparableData(t *testing.T) {
	rng := random.New(11)
	trainSet, valSet := separable(80, rng), separable(20, rng)

	cfg := nn.DefaultConfig()
	cfg.ScaleFactors = make([]*nn.ScaleFactor, 2)
	cfg.HiddenSizes = []int{8}
	cfg.Activation = nn.Activation{Method: nn.ActivationTanh}
	cfg.MaxEpochs = 200
	cfg.BatchSize = 8
	cfg.Optimization = nn.Optimization{Method: nn.OptimizerAdam, LearningRate: 0.01}
	m, err := nn.NewModel(cfg, nil)
	require.NoError(t, err)

	res, err := train.New(m).Run(context.Background(), trainSet, valSet)
	require.NoError(t, err)
	require.Len(t, res.Model.TrainMetrics, 200)
	require.Len(t, res.Model.ValMetrics, 200)

	first, last := res.Model.TrainMetrics[0], res.Model.TrainMetrics[199]
	assert.Less(t, last.Loss, first.Loss)
	best := res.Model.ValMetrics[res.Model.BestEpoch-1]
	assert.GreaterOrEqual(t, best.Accuracy, 0.8)
}

type recorder struct {
	epochs []int
}

func (r *recorder) RecordEpoch(epoch int, _, _ nn.EpochMetrics) error {
	r.epochs = append(r.epochs, epoch)
	return nil
}

func TestRunEarlyStopKeepsBestAndFullHistory(t *testing.T) {
	// A vanishing learning rate keeps the validation loss flat.
	m := fourFeatureModel(t, nn.Optimization{Method: nn.OptimizerSGD, LearningRate: 1e-15}, 50, 2)
	m.EarlyStopping = &nn.EarlyStopping{Metric: nn.MetricLoss, Patience: 2}
	initial := m.Clone()
	rec := &recorder{}

	res, err := train.New(m, train.WithSink(rec)).Run(context.Background(), fiveRows, twoRows)
	require.NoError(t, err)
	require.NotNil(t, res.Stop)
	assert.Equal(t, train.StopPatience, res.Stop.Kind)
	assert.Equal(t, 3, res.Epochs)
	assert.Equal(t, []int{1, 2, 3}, rec.epochs)

	assert.Equal(t, 1, res.Model.BestEpoch)
	assert.Len(t, res.Model.TrainMetrics, 3)
	assert.Len(t, res.Model.ValMetrics, 3)
	for k := range initial.Parameters {
		for i := range initial.Parameters[k].Weights {
			assert.InDeltaSlice(t, initial.Parameters[k].Weights[i], res.Model.Parameters[k].Weights[i], 1e-12)
		}
	}
}

func TestRunHonorsCanceledContext(t *testing.T) {
	m := fourFeatureModel(t, nn.Optimization{Method: nn.OptimizerSGD}, 10, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := train.New(m).Run(ctx, fiveRows, twoRows)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Zero(t, res.Epochs)
	assert.Empty(t, res.Model.TrainMetrics)
}

func TestRunRejectsInvalidInput(t *testing.T) {
	m := fourFeatureModel(t, nn.Optimization{Method: nn.OptimizerSGD}, 1, 0)
	_, err := train.New(m).Run(context.Background(), dataset.Set{}, twoRows)
	assert.ErrorIs(t, err, nn.ErrConfiguration)

	narrow := dataset.Set{Features: tensor.Matrix{{1, 2}}, Labels: []float64{1}}
	_, err = train.New(m).Run(context.Background(), narrow, twoRows)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	m.Optimization.Method = "Lion"
	_, err = train.New(m).Run(context.Background(), fiveRows, twoRows)
	assert.ErrorIs(t, err, nn.ErrUnknownVariant)
}

func TestWithRandControlsShuffling(t *testing.T) {
	sgd := nn.Optimization{Method: nn.OptimizerSGD, LearningRate: 0.1}
	a := fourFeatureModel(t, sgd, 2, 2)
	b := fourFeatureModel(t, sgd, 2, 2)

	_, err := train.New(a, train.WithRand(random.New(1))).Run(context.Background(), fiveRows, twoRows)
	require.NoError(t, err)
	_, err = train.New(b, train.WithRand(random.New(1))).Run(context.Background(), fiveRows, twoRows)
	require.NoError(t, err)
	assert.Equal(t, a.Parameters, b.Parameters)
}
