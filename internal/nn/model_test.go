package nn_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/random"
	"github.com/corvvs/mlp/internal/tensor"
)

func TestNewModelDefaults(t *testing.T) {
	cfg := nn.DefaultConfig()
	cfg.ScaleFactors = []*nn.ScaleFactor{{Mean: 1, Stddev: 2}, {Mean: 0, Stddev: 1}, nil}

	m, err := nn.NewModel(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, nn.Version, m.Version)
	assert.Equal(t, int64(123), m.Seed)
	assert.Equal(t, 8, m.BatchSize)
	require.Len(t, m.Layers, 4)
	assert.Equal(t, nn.LayerInput, m.Layers[0].Type)
	assert.Equal(t, 3, m.Layers[0].Size)
	assert.Equal(t, 24, m.Layers[1].Size)
	assert.Equal(t, 24, m.Layers[2].Size)
	assert.Equal(t, nn.LayerOutput, m.Layers[3].Type)
	assert.Equal(t, nn.OutputSize, m.Layers[3].Size)
	assert.Len(t, m.Parameters, 3)
	assert.Zero(t, m.BestEpoch)
	assert.Empty(t, m.TrainMetrics)

	// A nil rng is seeded from cfg.Seed.
	again, err := nn.NewModel(cfg, random.New(cfg.Seed))
	require.NoError(t, err)
	assert.Equal(t, m.Parameters, again.Parameters)
}

func TestNewModelRejectsBadConfig(t *testing.T) {
	base := nn.DefaultConfig()
	base.ScaleFactors = make([]*nn.ScaleFactor, 2)

	tests := []struct {
		name   string
		mutate func(*nn.Config)
		want   error
	}{
		{"no features", func(c *nn.Config) { c.ScaleFactors = nil }, nn.ErrConfiguration},
		{"zero hidden size", func(c *nn.Config) { c.HiddenSizes = []int{4, 0} }, nn.ErrConfiguration},
		{"softmax hidden", func(c *nn.Config) { c.Activation = nn.Activation{Method: nn.ActivationSoftmax} }, nn.ErrConfiguration},
		{"unknown activation", func(c *nn.Config) { c.Activation = nn.Activation{Method: "gelu"} }, nn.ErrUnknownVariant},
		{"zero epochs", func(c *nn.Config) { c.MaxEpochs = 0 }, nn.ErrConfiguration},
		{"negative batch", func(c *nn.Config) { c.BatchSize = -1 }, nn.ErrConfiguration},
		{"split ratio", func(c *nn.Config) { c.SplitRatio = 1 }, nn.ErrConfiguration},
		{"unknown optimizer", func(c *nn.Config) { c.Optimization.Method = "Lion" }, nn.ErrUnknownVariant},
		{"negative patience", func(c *nn.Config) {
			c.EarlyStopping = &nn.EarlyStopping{Metric: nn.MetricLoss, Patience: -1}
		}, nn.ErrConfiguration},
		{"unknown metric", func(c *nn.Config) {
			c.EarlyStopping = &nn.EarlyStopping{Metric: "auc", Patience: 3}
		}, nn.ErrUnknownVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := nn.NewModel(cfg, nil)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateLayers(t *testing.T) {
	relu := nn.Activation{Method: nn.ActivationReLU}
	in := nn.InputLayer(make([]*nn.ScaleFactor, 3))
	out := nn.OutputLayer()

	require.NoError(t, nn.ValidateLayers([]nn.Layer{in, out}))
	require.NoError(t, nn.ValidateLayers([]nn.Layer{in, nn.HiddenLayer(4, relu), out}))

	assert.ErrorIs(t, nn.ValidateLayers([]nn.Layer{in}), nn.ErrConfiguration)
	assert.ErrorIs(t, nn.ValidateLayers([]nn.Layer{out, in}), nn.ErrConfiguration)
	assert.ErrorIs(t, nn.ValidateLayers([]nn.Layer{in, in, out}), nn.ErrConfiguration)
	assert.ErrorIs(t, nn.ValidateLayers([]nn.Layer{in, nn.HiddenLayer(2, relu)}), nn.ErrConfiguration)
	assert.ErrorIs(t, nn.ValidateLayers([]nn.Layer{in, {Type: nn.LayerOutput, Size: 3, Activation: out.Activation}}), nn.ErrConfiguration)
	assert.ErrorIs(t, nn.ValidateLayers([]nn.Layer{in, {Type: "dropout", Size: 3}, out}), nn.ErrUnknownVariant)
}

func TestModelValidateParameterShapes(t *testing.T) {
	m := smallModel(t, nn.Activation{Method: nn.ActivationReLU}, nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, nil)
	require.NoError(t, m.Validate())

	m.Parameters[0].Weights = tensor.NewMatrix(3, 5)
	require.ErrorIs(t, m.Validate(), tensor.ErrShapeMismatch)

	m.Parameters = m.Parameters[:1]
	require.ErrorIs(t, m.Validate(), tensor.ErrShapeMismatch)
}

func TestModelCloneIsDeep(t *testing.T) {
	m := smallModel(t, nn.Activation{Method: nn.ActivationLeakyReLU, Alpha: 0.1},
		nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, &nn.Regularization{Method: nn.RegularizationL2, Lambda: 0.1})
	m.Layers[0].ScaleFactors[0] = &nn.ScaleFactor{Mean: 1, Stddev: 2}
	m.TrainMetrics = append(m.TrainMetrics, nn.EpochMetrics{Loss: 1})
	m.EarlyStopping = &nn.EarlyStopping{Metric: nn.MetricLoss, Patience: 2}

	c := m.Clone()
	require.Equal(t, m, c)

	c.Parameters[0].Weights[0][0] += 1
	c.Parameters[1].Biases[0] += 1
	c.Layers[0].ScaleFactors[0].Mean = 9
	c.Layers[1].Activation.Alpha = 0.5
	c.Regularization.Lambda = 3
	c.EarlyStopping.Patience = 7
	c.TrainMetrics[0].Loss = 5

	assert.NotEqual(t, m.Parameters[0].Weights[0][0], c.Parameters[0].Weights[0][0])
	assert.Zero(t, m.Parameters[1].Biases[0])
	assert.Equal(t, 1.0, m.Layers[0].ScaleFactors[0].Mean)
	assert.Equal(t, 0.1, m.Layers[1].Activation.Alpha)
	assert.Equal(t, 0.1, m.Regularization.Lambda)
	assert.Equal(t, 2, m.EarlyStopping.Patience)
	assert.Equal(t, 1.0, m.TrainMetrics[0].Loss)
}

func TestModelDescribe(t *testing.T) {
	m := smallModel(t, nn.Activation{Method: nn.ActivationLeakyReLU, Alpha: 0.02},
		nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, &nn.Regularization{Method: nn.RegularizationL2, Lambda: 0.01})
	m.BatchSize = 0

	var b strings.Builder
	require.NoError(t, m.Describe(&b))
	out := b.String()

	assert.Contains(t, out, "B (Batch Size): ALL")
	assert.Contains(t, out, "Layers: 3")
	assert.Contains(t, out, " Layer 0: (Input, 2)")
	assert.Contains(t, out, " Layer 1: (Hidden, 3, LeakyReLU(0.02))")
	assert.Contains(t, out, " Layer 2: (Output, 2, softmax)")
	assert.Contains(t, out, "Parameters Initialization Method: Xavier (uniform)")
	assert.Contains(t, out, "Regularization Method: L2 (lambda=0.01)")
	assert.Contains(t, out, "Optimization Method: SGD (lr=0.01)")
	assert.Contains(t, out, "Early Stopping: Disabled")
}
