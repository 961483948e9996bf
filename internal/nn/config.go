package nn

import (
	"fmt"
	"strings"
)

// InitMethod tags an Initialization descriptor.
type InitMethod string

// Initialization methods.
const (
	InitUniform InitMethod = "Uniform"
	InitHe      InitMethod = "He"
	InitXavier  InitMethod = "Xavier"
)

// Distribution selects the sampling distribution of He and Xavier.
type Distribution string

// Distributions.
const (
	DistUniform Distribution = "uniform"
	DistNormal  Distribution = "normal"
)

// Initialization describes how weights are drawn.
type Initialization struct {
	Method InitMethod   `json:"method"`
	Dist   Distribution `json:"dist,omitempty"`
}

// String implements fmt.Stringer.
func (i Initialization) String() string {
	if i.Dist == "" {
		return string(i.Method)
	}
	return fmt.Sprintf("%s (%s)", i.Method, i.Dist)
}

// LossMethod tags a LossFunction descriptor.
type LossMethod string

// Loss functions.
const (
	LossCCE         LossMethod = "CCE"
	LossWeightedBCE LossMethod = "WeightedBCE"
)

// LossFunction describes the training loss.
//
// PosWeight and NegWeight are used by WeightedBCE only.
type LossFunction struct {
	Method    LossMethod `json:"method"`
	Eps       float64    `json:"eps"`
	PosWeight float64    `json:"posWeight,omitempty"`
	NegWeight float64    `json:"negWeight,omitempty"`
}

// String implements fmt.Stringer.
func (l LossFunction) String() string {
	switch l.Method {
	case LossWeightedBCE:
		return fmt.Sprintf("WeightedBCE (pos=%g, neg=%g, eps=%g)", l.PosWeight, l.NegWeight, l.Eps)
	default:
		return fmt.Sprintf("%s (eps=%g)", l.Method, l.Eps)
	}
}

// RegularizationMethod tags a Regularization descriptor.
type RegularizationMethod string

// RegularizationL2 is weight decay through the loss: λ/2·ΣW².
const RegularizationL2 RegularizationMethod = "L2"

// Regularization describes the penalty added to the loss.
type Regularization struct {
	Method RegularizationMethod `json:"method"`
	Lambda float64              `json:"lambda"`
}

// String implements fmt.Stringer.
func (r Regularization) String() string {
	return fmt.Sprintf("%s (lambda=%g)", r.Method, r.Lambda)
}

// OptimizerMethod tags an Optimization descriptor.
type OptimizerMethod string

// Optimizers.
const (
	OptimizerSGD         OptimizerMethod = "SGD"
	OptimizerMomentumSGD OptimizerMethod = "MomentumSGD"
	OptimizerAdaGrad     OptimizerMethod = "AdaGrad"
	OptimizerRMSProp     OptimizerMethod = "RMSProp"
	OptimizerAdam        OptimizerMethod = "Adam"
	OptimizerAdamW       OptimizerMethod = "AdamW"
)

// Optimization describes the optimizer and its hyperparameters.
//
// Fields that do not apply to Method are zero and omitted when encoded.
// The optim package turns an Optimization into a stateful optimizer.
type Optimization struct {
	Method       OptimizerMethod `json:"method"`
	LearningRate float64         `json:"learningRate"`
	Alpha        float64         `json:"alpha,omitempty"`       // MomentumSGD
	Rho          float64         `json:"rho,omitempty"`         // RMSProp
	Beta1        float64         `json:"beta1,omitempty"`       // Adam, AdamW
	Beta2        float64         `json:"beta2,omitempty"`       // Adam, AdamW
	Eps          float64         `json:"eps,omitempty"`         // AdaGrad, RMSProp, Adam, AdamW
	WeightDecay  float64         `json:"weightDecay,omitempty"` // AdamW
}

// WithDefaults returns o with unset hyperparameters filled in.
//
// Defaults:
//   - SGD, MomentumSGD, AdaGrad: LearningRate 0.01
//   - RMSProp, Adam, AdamW: LearningRate 0.001
//   - MomentumSGD: Alpha 0.9
//   - RMSProp: Rho 0.9
//   - Adam, AdamW: Beta1 0.9, Beta2 0.999
//   - AdaGrad, RMSProp, Adam, AdamW: Eps 1e-8
//   - AdamW: WeightDecay 1e-4
func (o Optimization) WithDefaults() (Optimization, error) {
	setDefault := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	switch o.Method {
	case OptimizerSGD:
		setDefault(&o.LearningRate, 0.01)
	case OptimizerMomentumSGD:
		setDefault(&o.LearningRate, 0.01)
		setDefault(&o.Alpha, 0.9)
	case OptimizerAdaGrad:
		setDefault(&o.LearningRate, 0.01)
		setDefault(&o.Eps, 1e-8)
	case OptimizerRMSProp:
		setDefault(&o.LearningRate, 0.001)
		setDefault(&o.Rho, 0.9)
		setDefault(&o.Eps, 1e-8)
	case OptimizerAdam, OptimizerAdamW:
		setDefault(&o.LearningRate, 0.001)
		setDefault(&o.Beta1, 0.9)
		setDefault(&o.Beta2, 0.999)
		setDefault(&o.Eps, 1e-8)
		if o.Method == OptimizerAdamW {
			setDefault(&o.WeightDecay, 1e-4)
		}
	default:
		return o, fmt.Errorf("%w: optimizer %q", ErrUnknownVariant, o.Method)
	}
	return o, nil
}

// String implements fmt.Stringer.
func (o Optimization) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (lr=%g", o.Method, o.LearningRate)
	switch o.Method {
	case OptimizerMomentumSGD:
		fmt.Fprintf(&b, ", alpha=%g", o.Alpha)
	case OptimizerAdaGrad:
		fmt.Fprintf(&b, ", eps=%g", o.Eps)
	case OptimizerRMSProp:
		fmt.Fprintf(&b, ", rho=%g, eps=%g", o.Rho, o.Eps)
	case OptimizerAdam:
		fmt.Fprintf(&b, ", beta1=%g, beta2=%g, eps=%g", o.Beta1, o.Beta2, o.Eps)
	case OptimizerAdamW:
		fmt.Fprintf(&b, ", beta1=%g, beta2=%g, eps=%g, weightDecay=%g", o.Beta1, o.Beta2, o.Eps, o.WeightDecay)
	}
	b.WriteString(")")
	return b.String()
}

// Metric names an EpochMetrics field that early stopping can monitor.
type Metric string

// Monitored metrics.
const (
	MetricLoss      Metric = "loss"
	MetricAccuracy  Metric = "accuracy"
	MetricPrecision Metric = "precision"
	MetricRecall    Metric = "recall"
	MetricF1Score   Metric = "f1Score"
)

// EarlyStopping describes the stopping rule of a training run.
type EarlyStopping struct {
	Metric   Metric `json:"metric"`
	Patience int    `json:"patience"`
}

// String implements fmt.Stringer.
func (e EarlyStopping) String() string {
	return fmt.Sprintf("%s (patience=%d)", e.Metric, e.Patience)
}
