package nn

import (
	"fmt"

	"github.com/corvvs/mlp/internal/random"
	"github.com/corvvs/mlp/internal/tensor"
)

// Version is written into every model built by NewModel.
const Version = "1.0.0"

// Model is a trained or trainable network together with the configuration
// that produced it and its per-epoch metric history.
//
// Parameters[k] connects Layers[k] to Layers[k+1].
type Model struct {
	Version    string  `json:"version"`
	Seed       int64   `json:"seed"`
	SplitRatio float64 `json:"splitRatio"`
	MaxEpochs  int     `json:"maxEpochs"`
	// BatchSize 0 means one batch per epoch.
	BatchSize int `json:"batchSize"`

	Layers         []Layer         `json:"layers"`
	Initialization Initialization  `json:"initialization"`
	LossFunction   LossFunction    `json:"lossFunction"`
	Regularization *Regularization `json:"regularization,omitempty"`
	Optimization   Optimization    `json:"optimization"`
	EarlyStopping  *EarlyStopping  `json:"earlyStopping,omitempty"`

	// BestEpoch is 1-based; 0 means the model was never trained.
	BestEpoch    int              `json:"bestEpoch"`
	Parameters   []LayerParameter `json:"parameters"`
	TrainMetrics []EpochMetrics   `json:"trainMetrics"`
	ValMetrics   []EpochMetrics   `json:"valMetrics"`
}

// Config holds the inputs of NewModel.
type Config struct {
	// ScaleFactors has one entry per input feature.
	ScaleFactors []*ScaleFactor
	HiddenSizes  []int
	Activation   Activation

	Seed       int64
	SplitRatio float64
	MaxEpochs  int
	BatchSize  int

	Initialization Initialization
	LossFunction   LossFunction
	Regularization *Regularization
	Optimization   Optimization
	EarlyStopping  *EarlyStopping
}

// DefaultConfig returns a Config with the defaults of the mlp command.
func DefaultConfig() Config {
	return Config{
		HiddenSizes:    []int{24, 24},
		Activation:     Activation{Method: ActivationReLU},
		Seed:           123,
		SplitRatio:     0.8,
		MaxEpochs:      1000,
		BatchSize:      8,
		Initialization: Initialization{Method: InitHe, Dist: DistUniform},
		LossFunction:   LossFunction{Method: LossCCE, Eps: 1e-9},
		Optimization:   Optimization{Method: OptimizerSGD, LearningRate: 0.01},
	}
}

// NewModel builds the layers described by cfg and initializes their
// parameters from rng. A nil rng is replaced by random.New(cfg.Seed).
func NewModel(cfg Config, rng *random.Rand) (*Model, error) {
	layers := make([]Layer, 0, len(cfg.HiddenSizes)+2)
	layers = append(layers, InputLayer(cfg.ScaleFactors))
	for _, size := range cfg.HiddenSizes {
		layers = append(layers, HiddenLayer(size, cfg.Activation))
	}
	layers = append(layers, OutputLayer())

	m := &Model{
		Version:        Version,
		Seed:           cfg.Seed,
		SplitRatio:     cfg.SplitRatio,
		MaxEpochs:      cfg.MaxEpochs,
		BatchSize:      cfg.BatchSize,
		Layers:         layers,
		Initialization: cfg.Initialization,
		LossFunction:   cfg.LossFunction,
		Regularization: cfg.Regularization,
		Optimization:   cfg.Optimization,
		EarlyStopping:  cfg.EarlyStopping,
		TrainMetrics:   []EpochMetrics{},
		ValMetrics:     []EpochMetrics{},
	}
	if err := m.validateConfig(); err != nil {
		return nil, err
	}

	if rng == nil {
		rng = random.New(cfg.Seed)
	}
	params, err := InitializeParams(layers, cfg.Initialization, rng)
	if err != nil {
		return nil, fmt.Errorf("initialize parameters: %w", err)
	}
	m.Parameters = params
	return m, nil
}

// Validate checks the topology, the hyperparameters and the shape of every
// parameter against its layer boundary.
func (m *Model) Validate() error {
	if err := m.validateConfig(); err != nil {
		return err
	}
	if len(m.Parameters) != len(m.Layers)-1 {
		return fmt.Errorf("%w: %d parameter sets for %d layers", tensor.ErrShapeMismatch, len(m.Parameters), len(m.Layers))
	}
	for k, p := range m.Parameters {
		if err := p.Weights.Validate(); err != nil {
			return fmt.Errorf("parameters %d: %w", k, err)
		}
		want := tensor.Shape{Rows: m.Layers[k+1].Size, Cols: m.Layers[k].Size}
		if got := p.Weights.Shape(); !got.Equal(want) || len(p.Biases) != want.Rows {
			return fmt.Errorf("%w: parameters %d: weights %v, biases %d, expected %v",
				tensor.ErrShapeMismatch, k, got, len(p.Biases), want)
		}
	}
	return nil
}

func (m *Model) validateConfig() error {
	if err := ValidateLayers(m.Layers); err != nil {
		return err
	}
	if m.MaxEpochs <= 0 {
		return fmt.Errorf("%w: max epochs %d", ErrConfiguration, m.MaxEpochs)
	}
	if m.BatchSize < 0 {
		return fmt.Errorf("%w: batch size %d", ErrConfiguration, m.BatchSize)
	}
	if !(m.SplitRatio > 0 && m.SplitRatio < 1) {
		return fmt.Errorf("%w: split ratio %g must be in (0, 1)", ErrConfiguration, m.SplitRatio)
	}
	if _, err := m.LossFunction.Criterion(); err != nil {
		return err
	}
	if _, err := m.Regularization.Regularizer(); err != nil {
		return err
	}
	if _, err := m.Optimization.WithDefaults(); err != nil {
		return err
	}
	if m.EarlyStopping != nil {
		if m.EarlyStopping.Patience < 0 {
			return fmt.Errorf("%w: patience %d", ErrConfiguration, m.EarlyStopping.Patience)
		}
		if _, err := (EpochMetrics{}).Score(m.EarlyStopping.Metric); err != nil {
			return err
		}
	}
	return nil
}

// Weights returns the weight matrix of every layer boundary (no copy).
func (m *Model) Weights() []tensor.Matrix {
	ws := make([]tensor.Matrix, len(m.Parameters))
	for i, p := range m.Parameters {
		ws[i] = p.Weights
	}
	return ws
}

// Clone returns a deep copy of m.
func (m *Model) Clone() *Model {
	c := *m
	c.Layers = make([]Layer, len(m.Layers))
	for i, l := range m.Layers {
		c.Layers[i] = l.clone()
	}
	if m.Regularization != nil {
		r := *m.Regularization
		c.Regularization = &r
	}
	if m.EarlyStopping != nil {
		es := *m.EarlyStopping
		c.EarlyStopping = &es
	}
	c.Parameters = make([]LayerParameter, len(m.Parameters))
	for i, p := range m.Parameters {
		c.Parameters[i] = p.Clone()
	}
	c.TrainMetrics = append([]EpochMetrics{}, m.TrainMetrics...)
	c.ValMetrics = append([]EpochMetrics{}, m.ValMetrics...)
	return &c
}

func (l Layer) clone() Layer {
	c := l
	if l.ScaleFactors != nil {
		c.ScaleFactors = make([]*ScaleFactor, len(l.ScaleFactors))
		for i, sf := range l.ScaleFactors {
			if sf != nil {
				s := *sf
				c.ScaleFactors[i] = &s
			}
		}
	}
	if l.Activation != nil {
		a := *l.Activation
		c.Activation = &a
	}
	return c
}
