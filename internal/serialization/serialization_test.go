package serialization_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/serialization"
	"github.com/corvvs/mlp/internal/tensor"
)

func trainedModel(t *testing.T) *nn.Model {
	t.Helper()
	cfg := nn.DefaultConfig()
	cfg.ScaleFactors = []*nn.ScaleFactor{{Mean: 1.5, Stddev: 0.25}, nil, {Mean: -3, Stddev: 0}}
	cfg.HiddenSizes = []int{4, 3}
	cfg.Activation = nn.Activation{Method: nn.ActivationLeakyReLU, Alpha: 0.02}
	cfg.Regularization = &nn.Regularization{Method: nn.RegularizationL2, Lambda: 0.001}
	cfg.Optimization = nn.Optimization{Method: nn.OptimizerAdamW, WeightDecay: 0.01}
	cfg.EarlyStopping = &nn.EarlyStopping{Metric: nn.MetricF1Score, Patience: 5}

	m, err := nn.NewModel(cfg, nil)
	require.NoError(t, err)
	m.TrainMetrics = []nn.EpochMetrics{{Loss: 0.7, Accuracy: 0.5}, {Loss: 0.4, Accuracy: 0.8, F1Score: 0.75}}
	m.ValMetrics = []nn.EpochMetrics{{Loss: 0.72, Accuracy: 0.5}, {Loss: 0.45, Accuracy: 0.75, F1Score: 0.7}}
	m.BestEpoch = 2
	return m
}

func TestRoundTrip(t *testing.T) {
	m := trainedModel(t)
	path := filepath.Join(t.TempDir(), "model.json")

	require.NoError(t, serialization.WriteModel(path, m, map[string]string{"data": "train.csv"}))

	got, err := serialization.ReadModel(path)
	require.NoError(t, err)
	assert.Equal(t, m.Parameters, got.Parameters)
	assert.Equal(t, m.Layers, got.Layers)
	assert.Equal(t, m.Optimization, got.Optimization)
	assert.Equal(t, m.Regularization, got.Regularization)
	assert.Equal(t, m.EarlyStopping, got.EarlyStopping)
	assert.Equal(t, m.TrainMetrics, got.TrainMetrics)
	assert.Equal(t, m.ValMetrics, got.ValMetrics)
	assert.Equal(t, 2, got.BestEpoch)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestReadReturnsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, serialization.Write(&buf, trainedModel(t), map[string]string{"seed": "123"}))

	_, h, err := serialization.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, serialization.FormatVersion, h.FormatVersion)
	assert.Equal(t, serialization.LibraryVersion, h.MLPVersion)
	assert.Equal(t, "123", h.Metadata["seed"])
	assert.False(t, h.CreatedAt.IsZero())
}

// A re-indented envelope keeps a valid checksum.
func TestChecksumIgnoresFormatting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, serialization.Write(&buf, trainedModel(t), nil))

	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, buf.Bytes()))

	_, _, err := serialization.Read(&compact)
	require.NoError(t, err)
}

func tamper(t *testing.T, edit func(doc map[string]any)) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, serialization.Write(&buf, trainedModel(t), nil))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	edit(doc)
	out, err := json.Marshal(doc)
	require.NoError(t, err)
	return bytes.NewReader(out)
}

func TestReadDetectsTampering(t *testing.T) {
	r := tamper(t, func(doc map[string]any) {
		model := doc["model"].(map[string]any)
		model["bestEpoch"] = 1
	})
	_, _, err := serialization.Read(r)
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
}

func TestReadSkipChecksum(t *testing.T) {
	r := tamper(t, func(doc map[string]any) {
		model := doc["model"].(map[string]any)
		model["bestEpoch"] = 1
	})
	m, _, err := serialization.ReadWithOptions(r, serialization.ReaderOptions{SkipChecksumValidation: true})
	require.NoError(t, err)
	assert.Equal(t, 1, m.BestEpoch)
}

func TestReadRejectsVersion(t *testing.T) {
	r := tamper(t, func(doc map[string]any) { doc["format_version"] = 99 })
	_, _, err := serialization.Read(r)
	assert.ErrorIs(t, err, serialization.ErrUnsupportedVersion)
}

func TestReadRejectsMissingModel(t *testing.T) {
	r := tamper(t, func(doc map[string]any) { delete(doc, "model") })
	_, _, err := serialization.Read(r)
	assert.ErrorIs(t, err, serialization.ErrMissingModel)
}

func TestReadRejectsInvalidModel(t *testing.T) {
	m := trainedModel(t)
	m.Parameters[1].Biases = m.Parameters[1].Biases[:1]
	body, err := json.Marshal(m)
	require.NoError(t, err)
	doc := map[string]any{
		"format_version": serialization.FormatVersion,
		"checksum":       serialization.ComputeChecksum(body),
		"model":          json.RawMessage(body),
	}
	out, err := json.Marshal(doc)
	require.NoError(t, err)

	_, _, err = serialization.Read(bytes.NewReader(out))
	require.Error(t, err)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

	var verr *serialization.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "invalid_model", verr.Type)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, _, err := serialization.Read(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestWriteRejectsNonFinite(t *testing.T) {
	m := trainedModel(t)
	m.Parameters[0].Weights[0][0] = math.NaN()

	var buf bytes.Buffer
	err := serialization.Write(&buf, m, nil)
	assert.ErrorIs(t, err, nn.ErrNumericInstability)
	assert.Zero(t, buf.Len())
}

func TestValidateModelHistory(t *testing.T) {
	m := trainedModel(t)
	m.BestEpoch = 3
	assert.Error(t, serialization.ValidateModel(m))

	m = trainedModel(t)
	m.ValMetrics = m.ValMetrics[:1]
	assert.Error(t, serialization.ValidateModel(m))

	m = trainedModel(t)
	m.Layers[0].ScaleFactors[0].Stddev = -1
	assert.ErrorIs(t, serialization.ValidateModel(m), nn.ErrConfiguration)

	assert.ErrorIs(t, serialization.ValidateModel(nil), serialization.ErrMissingModel)
}

func TestChecksum(t *testing.T) {
	data := []byte("mlp")
	sum := serialization.ComputeChecksum(data)
	assert.Len(t, sum, 64)

	fromReader, err := serialization.ComputeChecksumReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, sum, fromReader)

	assert.NoError(t, serialization.ValidateChecksum(sum, strings.ToUpper(sum)))
	assert.ErrorIs(t, serialization.ValidateChecksum(sum, serialization.ComputeChecksum([]byte("born"))), serialization.ErrChecksumMismatch)
}
