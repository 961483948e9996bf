package runlog_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvvs/mlp/internal/dataset"
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/runlog"
	"github.com/corvvs/mlp/internal/tensor"
	"github.com/corvvs/mlp/internal/train"
)

func TestProgressWriter(t *testing.T) {
	var buf bytes.Buffer
	p := runlog.NewProgressWriter(&buf)

	require.NoError(t, p.RecordEpoch(1, nn.EpochMetrics{Loss: 0.693147, Accuracy: 0.5}, nn.EpochMetrics{Loss: 0.7, Accuracy: 0.25}))
	require.NoError(t, p.RecordEpoch(2, nn.EpochMetrics{Loss: 0.5, Accuracy: 0.75}, nn.EpochMetrics{Loss: 0.6, Accuracy: 0.5}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"epoch", "trainLoss", "valLoss", "trainAcc", "valAcc"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "0.693147", "0.700000", "0.5000", "0.2500"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "0.500000", "0.600000", "0.7500", "0.5000"}, strings.Fields(lines[2]))
}

func openStore(t *testing.T) *runlog.SQLiteStore {
	t.Helper()
	s, err := runlog.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func smallModel(t *testing.T, epochs int) *nn.Model {
	t.Helper()
	cfg := nn.DefaultConfig()
	cfg.ScaleFactors = make([]*nn.ScaleFactor, 2)
	cfg.HiddenSizes = []int{3}
	cfg.MaxEpochs = epochs
	cfg.BatchSize = 0
	m, err := nn.NewModel(cfg, nil)
	require.NoError(t, err)
	return m
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := smallModel(t, 10)

	_, err := s.BeginRun(ctx, m)
	require.NoError(t, err)

	e1 := nn.EpochMetrics{Loss: 0.7, Accuracy: 0.5, Precision: 0.4, Recall: 0.3, Specificity: 0.2, F1Score: 0.1}
	e2 := nn.EpochMetrics{Loss: 0.6, Accuracy: 0.6, Precision: 0.5, Recall: 0.4, Specificity: 0.3, F1Score: 0.2}
	require.NoError(t, s.RecordEpoch(1, e1, e2))
	require.NoError(t, s.RecordEpoch(2, e2, e1))
	require.NoError(t, s.FinishRun(ctx, 2, "patience", "model.json"))

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	r := runs[0]
	assert.Equal(t, int64(123), r.Seed)
	assert.Equal(t, "(Input, 2) (Hidden, 3, ReLU) (Output, 2, softmax)", r.Layers)
	assert.Equal(t, m.Optimization.String(), r.Optimizer)
	assert.Equal(t, 0, r.BatchSize)
	assert.Equal(t, 10, r.MaxEpochs)
	assert.Equal(t, 2, r.BestEpoch)
	assert.Equal(t, "patience", r.StopReason)
	assert.Equal(t, "model.json", r.ModelPath)
	assert.False(t, r.FinishedAt.Before(r.StartedAt))

	epochs, err := s.Epochs(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []runlog.EpochRecord{{Epoch: 1, Train: e1, Val: e2}, {Epoch: 2, Train: e2, Val: e1}}, epochs)
}

func TestSQLiteStoreRequiresRun(t *testing.T) {
	s := openStore(t)
	assert.ErrorIs(t, s.RecordEpoch(1, nn.EpochMetrics{}, nn.EpochMetrics{}), runlog.ErrNoRun)
	assert.ErrorIs(t, s.FinishRun(context.Background(), 0, "", ""), runlog.ErrNoRun)
}

func TestSQLiteStoreRejectsDuplicateEpoch(t *testing.T) {
	s := openStore(t)
	_, err := s.BeginRun(context.Background(), smallModel(t, 1))
	require.NoError(t, err)
	require.NoError(t, s.RecordEpoch(1, nn.EpochMetrics{}, nn.EpochMetrics{}))
	assert.Error(t, s.RecordEpoch(1, nn.EpochMetrics{}, nn.EpochMetrics{}))
}

func TestSQLiteStoreAsTrainerSink(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	m := smallModel(t, 4)

	set := dataset.Set{
		Features: tensor.Matrix{{-1, -1}, {-0.5, -1}, {1, 1}, {0.5, 1}},
		Labels:   []float64{0, 0, 1, 1},
	}

	id, err := s.BeginRun(ctx, m)
	require.NoError(t, err)
	var progress bytes.Buffer
	res, err := train.New(m, train.WithSink(s), train.WithSink(runlog.NewProgressWriter(&progress))).Run(ctx, set, set)
	require.NoError(t, err)

	epochs, err := s.Epochs(ctx, id)
	require.NoError(t, err)
	require.Len(t, epochs, res.Epochs)
	for i, e := range epochs {
		assert.Equal(t, i+1, e.Epoch)
		assert.Equal(t, res.Model.TrainMetrics[i], e.Train)
		assert.Equal(t, res.Model.ValMetrics[i], e.Val)
	}
	assert.Equal(t, res.Epochs+1, strings.Count(progress.String(), "\n"))
}
