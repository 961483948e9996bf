package nn_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/tensor"
)

var (
	sampleInputs = tensor.Matrix{
		{0.5, -1.2},
		{1.5, 0.3},
		{-0.7, 0.8},
		{0.1, -0.4},
	}
	sampleAnswers = []float64{1, 0, 1, 0}
)

func smallModel(t *testing.T, act nn.Activation, loss nn.LossFunction, reg *nn.Regularization) *nn.Model {
	t.Helper()
	cfg := nn.DefaultConfig()
	cfg.ScaleFactors = make([]*nn.ScaleFactor, 2)
	cfg.HiddenSizes = []int{3}
	cfg.Activation = act
	cfg.Initialization = nn.Initialization{Method: nn.InitXavier, Dist: nn.DistUniform}
	cfg.LossFunction = loss
	cfg.Regularization = reg
	cfg.Seed = 7
	m, err := nn.NewModel(cfg, nil)
	require.NoError(t, err)
	return m
}

func TestForwardShapes(t *testing.T) {
	m := smallModel(t, nn.Activation{Method: nn.ActivationReLU}, nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, nil)
	res, err := nn.Forward(sampleInputs, m)
	require.NoError(t, err)

	require.Len(t, res.Activations, len(m.Layers))
	require.Len(t, res.PreActivations, len(m.Layers))
	assert.Equal(t, sampleInputs, res.Activations[0])
	assert.Empty(t, res.PreActivations[0])
	for k := 1; k < len(m.Layers); k++ {
		assert.Equal(t, tensor.Shape{Rows: 4, Cols: m.Layers[k].Size}, res.Activations[k].Shape())
		assert.Equal(t, tensor.Shape{Rows: 4, Cols: m.Layers[k].Size}, res.PreActivations[k].Shape())
	}
	for _, row := range res.Output() {
		assert.InDelta(t, 1.0, row[0]+row[1], 1e-12)
	}
	for i, row := range res.Activations[1] {
		for j, v := range row {
			assert.Equal(t, math.Max(0, res.PreActivations[1][i][j]), v)
		}
	}
}

func TestForwardShapeMismatch(t *testing.T) {
	m := smallModel(t, nn.Activation{Method: nn.ActivationReLU}, nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, nil)
	_, err := nn.Forward(tensor.Matrix{{1, 2, 3}}, m)
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)

	m.Parameters[1].Biases = tensor.Vector{0}
	_, err = nn.Forward(sampleInputs, m)
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestRaggedWeightsAreRejected(t *testing.T) {
	m := smallModel(t, nn.Activation{Method: nn.ActivationReLU}, nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, nil)
	res, err := nn.Forward(sampleInputs, m)
	require.NoError(t, err)

	for _, k := range []int{0, 1} {
		t.Run(fmt.Sprintf("boundary %d", k), func(t *testing.T) {
			ragged := m.Clone()
			w := ragged.Parameters[k].Weights
			w[1] = append(append([]float64{}, w[1]...), 0.5)

			require.NotPanics(t, func() {
				_, err = nn.Forward(tensor.Matrix{{1, 2}}, ragged)
			})
			assert.ErrorIs(t, err, tensor.ErrShapeMismatch)

			require.NotPanics(t, func() {
				_, err = nn.Gradients(sampleAnswers, ragged, len(sampleAnswers), res, nil)
			})
			assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
		})
	}
}

// meanLoss evaluates the reported batch loss of m on the sample batch.
func meanLoss(t *testing.T, m *nn.Model) float64 {
	t.Helper()
	crit, err := m.LossFunction.Criterion()
	require.NoError(t, err)
	reg, err := m.Regularization.Regularizer()
	require.NoError(t, err)
	res, err := nn.Forward(sampleInputs, m)
	require.NoError(t, err)
	loss, err := nn.ComputeLoss(sampleAnswers, res.Output(), m.Weights(), crit, reg)
	require.NoError(t, err)
	return loss.MeanLoss
}

func TestGradientsMatchFiniteDifferences(t *testing.T) {
	tests := []struct {
		name string
		act  nn.Activation
		loss nn.LossFunction
		reg  *nn.Regularization
	}{
		{"tanh/cce", nn.Activation{Method: nn.ActivationTanh}, nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, nil},
		{"sigmoid/cce/l2", nn.Activation{Method: nn.ActivationSigmoid}, nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9},
			&nn.Regularization{Method: nn.RegularizationL2, Lambda: 0.05}},
		{"tanh/weightedbce", nn.Activation{Method: nn.ActivationTanh},
			nn.LossFunction{Method: nn.LossWeightedBCE, PosWeight: 2, NegWeight: 0.5, Eps: 1e-9}, nil},
	}
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-6}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := smallModel(t, tt.act, tt.loss, tt.reg)
			reg, err := m.Regularization.Regularizer()
			require.NoError(t, err)

			res, err := nn.Forward(sampleInputs, m)
			require.NoError(t, err)
			grads, err := nn.Gradients(sampleAnswers, m, len(sampleAnswers), res, reg)
			require.NoError(t, err)

			for k, p := range m.Parameters {
				for i := range p.Weights {
					for j := range p.Weights[i] {
						w := p.Weights[i][j]
						numeric := fd.Derivative(func(x float64) float64 {
							p.Weights[i][j] = x
							defer func() { p.Weights[i][j] = w }()
							return meanLoss(t, m)
						}, w, settings)
						assert.InDelta(t, numeric, grads[k].DW[i][j], 1e-4, "dW[%d][%d][%d]", k, i, j)
					}
				}
				for i := range p.Biases {
					b := p.Biases[i]
					numeric := fd.Derivative(func(x float64) float64 {
						p.Biases[i] = x
						defer func() { p.Biases[i] = b }()
						return meanLoss(t, m)
					}, b, settings)
					assert.InDelta(t, numeric, grads[k].DB[i], 1e-4, "db[%d][%d]", k, i)
				}
			}
		})
	}
}

func TestClipGradients(t *testing.T) {
	dW := tensor.Matrix{{10, -20}, {5, 0}}
	db := tensor.Vector{15, -5}
	origW, origB := dW.Clone(), db.Clone()

	before := nn.ClipGradients(dW, db, nn.MaxGradNorm)
	assert.InDelta(t, math.Sqrt(775), before, 1e-12)

	after := math.Sqrt(tensor.SquaredNormMat(dW) + tensor.SquaredNorm(db))
	assert.InDelta(t, nn.MaxGradNorm, after, 1e-12)

	ratio := nn.MaxGradNorm / before
	for i := range dW {
		for j := range dW[i] {
			assert.InDelta(t, origW[i][j]*ratio, dW[i][j], 1e-12)
		}
	}
	for i := range db {
		assert.InDelta(t, origB[i]*ratio, db[i], 1e-12)
	}
}

func TestClipGradientsLeavesSmallGradients(t *testing.T) {
	dW := tensor.Matrix{{1, 2}}
	db := tensor.Vector{2}
	nn.ClipGradients(dW, db, nn.MaxGradNorm)
	assert.Equal(t, tensor.Matrix{{1, 2}}, dW)
	assert.Equal(t, tensor.Vector{2}, db)
}

func TestGradientsAreClipped(t *testing.T) {
	m := smallModel(t, nn.Activation{Method: nn.ActivationLinear}, nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, nil)
	big := tensor.Matrix{{400, -300}, {-250, 500}}
	res, err := nn.Forward(big, m)
	require.NoError(t, err)

	grads, err := nn.Gradients([]float64{1, 0}, m, 2, res, nil)
	require.NoError(t, err)
	for _, g := range grads {
		norm := math.Sqrt(tensor.SquaredNormMat(g.DW) + tensor.SquaredNorm(g.DB))
		assert.LessOrEqual(t, norm, nn.MaxGradNorm+1e-9)
	}
}

type recordingUpdater struct {
	layers []int
	dW     []tensor.Matrix
}

func (r *recordingUpdater) Update(w tensor.Matrix, b tensor.Vector, dW tensor.Matrix, db tensor.Vector, k int) error {
	r.layers = append(r.layers, k)
	r.dW = append(r.dW, dW.Clone())
	if err := tensor.AddScaledMatX(w, -1, dW); err != nil {
		return err
	}
	return tensor.AddScaledVecX(b, -1, db)
}

func TestBackwardUsesPreUpdateWeights(t *testing.T) {
	m := smallModel(t, nn.Activation{Method: nn.ActivationTanh}, nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, nil)
	res, err := nn.Forward(sampleInputs, m)
	require.NoError(t, err)

	want, err := nn.Gradients(sampleAnswers, m, len(sampleAnswers), res, nil)
	require.NoError(t, err)
	before := m.Clone()

	u := &recordingUpdater{}
	require.NoError(t, nn.Backward(sampleAnswers, m, len(sampleAnswers), res, u, nil))

	assert.Equal(t, []int{1, 0}, u.layers)
	assert.Equal(t, want[1].DW, u.dW[0])
	assert.Equal(t, want[0].DW, u.dW[1])
	for k, p := range m.Parameters {
		expected, err := tensor.SubMat(before.Parameters[k].Weights, want[k].DW)
		require.NoError(t, err)
		assert.Equal(t, expected, p.Weights)
	}
}

func TestGradientsRejectBadInput(t *testing.T) {
	m := smallModel(t, nn.Activation{Method: nn.ActivationTanh}, nn.LossFunction{Method: nn.LossCCE, Eps: 1e-9}, nil)
	res, err := nn.Forward(sampleInputs, m)
	require.NoError(t, err)

	_, err = nn.Gradients(sampleAnswers, m, 0, res, nil)
	require.ErrorIs(t, err, nn.ErrConfiguration)

	_, err = nn.Gradients(sampleAnswers[:3], m, 4, res, nil)
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)

	res.Output()[0][0] = math.NaN()
	_, err = nn.Gradients(sampleAnswers, m, 4, res, nil)
	require.ErrorIs(t, err, nn.ErrNumericInstability)
}
