// Copyright 2025 The mlp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"io"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/random"
	"github.com/corvvs/mlp/internal/tensor"
)

// Errors reported by this package. Match them with errors.Is.
var (
	ErrUnknownVariant     = nn.ErrUnknownVariant
	ErrConfiguration      = nn.ErrConfiguration
	ErrNumericInstability = nn.ErrNumericInstability
	ErrShapeMismatch      = tensor.ErrShapeMismatch
)

// Model

// Model is a network together with its configuration and metric history.
type Model = nn.Model

// Config holds the inputs of NewModel.
type Config = nn.Config

// DefaultConfig returns the defaults of the mlp command.
func DefaultConfig() Config {
	return nn.DefaultConfig()
}

// NewModel builds and initializes a model. A nil rng is seeded from
// cfg.Seed.
func NewModel(cfg Config, rng *random.Rand) (*Model, error) {
	return nn.NewModel(cfg, rng)
}

// Describe writes a human-readable summary of m.
func Describe(w io.Writer, m *Model) error {
	return m.Describe(w)
}

// Layers

// Layer describes one layer of a model.
type Layer = nn.Layer

// LayerParameter holds the weights and biases between two layers.
type LayerParameter = nn.LayerParameter

// ScaleFactor is the standardization of one input feature.
type ScaleFactor = nn.ScaleFactor

// Hyperparameters

// Activation describes a layer activation.
type Activation = nn.Activation

// Initialization describes how parameters are drawn.
type Initialization = nn.Initialization

// LossFunction describes the training criterion.
type LossFunction = nn.LossFunction

// Regularization describes the penalty added to the loss.
type Regularization = nn.Regularization

// Optimization describes the optimizer and its hyperparameters.
type Optimization = nn.Optimization

// EarlyStopping describes when training stops before MaxEpochs.
type EarlyStopping = nn.EarlyStopping

// Metric names a score tracked by early stopping.
type Metric = nn.Metric

// EpochMetrics are the scores of one epoch.
type EpochMetrics = nn.EpochMetrics

// Activation methods.
const (
	ActivationLinear    = nn.ActivationLinear
	ActivationSigmoid   = nn.ActivationSigmoid
	ActivationTanh      = nn.ActivationTanh
	ActivationReLU      = nn.ActivationReLU
	ActivationLeakyReLU = nn.ActivationLeakyReLU
	ActivationSoftmax   = nn.ActivationSoftmax
)

// Initialization methods and distributions.
const (
	InitUniform = nn.InitUniform
	InitHe      = nn.InitHe
	InitXavier  = nn.InitXavier

	DistUniform = nn.DistUniform
	DistNormal  = nn.DistNormal
)

// Loss, regularization and optimizer methods.
const (
	LossCCE         = nn.LossCCE
	LossWeightedBCE = nn.LossWeightedBCE

	RegularizationL2 = nn.RegularizationL2

	OptimizerSGD         = nn.OptimizerSGD
	OptimizerMomentumSGD = nn.OptimizerMomentumSGD
	OptimizerAdaGrad     = nn.OptimizerAdaGrad
	OptimizerRMSProp     = nn.OptimizerRMSProp
	OptimizerAdam        = nn.OptimizerAdam
	OptimizerAdamW       = nn.OptimizerAdamW
)

// Metrics.
const (
	MetricLoss      = nn.MetricLoss
	MetricAccuracy  = nn.MetricAccuracy
	MetricPrecision = nn.MetricPrecision
	MetricRecall    = nn.MetricRecall
	MetricF1Score   = nn.MetricF1Score
)

// Passes

// ForwardResult holds every intermediate value of a forward pass.
type ForwardResult = nn.ForwardResult

// Updater applies the gradients of one layer boundary.
type Updater = nn.Updater

// Regularizer contributes a penalty to the loss and its gradient.
type Regularizer = nn.Regularizer

// Forward runs inputs (one row per sample) through model.
func Forward(inputs tensor.Matrix, model *Model) (*ForwardResult, error) {
	return nn.Forward(inputs, model)
}

// Backward computes the gradients of a batch and hands them to updater,
// last layer boundary first.
func Backward(answers []float64, model *Model, batchSize int, fwd *ForwardResult, updater Updater, reg Regularizer) error {
	return nn.Backward(answers, model, batchSize, fwd, updater, reg)
}

// Parsing

// ParseActivation parses "relu", "leakyrelu,0.02" and the like.
func ParseActivation(s string) (Activation, error) { return nn.ParseActivation(s) }

// ParseInitialization parses "uniform", "he[,dist]" or "xavier[,dist]".
func ParseInitialization(s string) (Initialization, error) { return nn.ParseInitialization(s) }

// ParseLossFunction parses "cce[,eps]" or "weightedbce[,pos[,neg[,eps]]]".
func ParseLossFunction(s string) (LossFunction, error) { return nn.ParseLossFunction(s) }

// ParseRegularization parses "l2,lambda"; an empty string yields nil.
func ParseRegularization(s string) (*Regularization, error) { return nn.ParseRegularization(s) }

// ParseOptimization parses optimizer descriptors such as "adam,0.001".
func ParseOptimization(s string) (Optimization, error) { return nn.ParseOptimization(s) }

// ParseEarlyStopping returns nil when early stopping is off.
func ParseEarlyStopping(metric string, patience int) (*EarlyStopping, error) {
	return nn.ParseEarlyStopping(metric, patience)
}
