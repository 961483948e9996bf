package nn

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// The Parse functions read the compact "method,param,param" descriptors
// accepted on the command line. Method names are case-insensitive; missing
// parameters take their defaults.

// ParseActivation parses "linear", "sigmoid", "tanh", "relu" or
// "leakyrelu[,alpha]".
func ParseActivation(s string) (Activation, error) {
	method, params := splitDescriptor(s)
	switch method {
	case "linear":
		return Activation{Method: ActivationLinear}, nil
	case "sigmoid":
		return Activation{Method: ActivationSigmoid}, nil
	case "tanh":
		return Activation{Method: ActivationTanh}, nil
	case "relu":
		return Activation{Method: ActivationReLU}, nil
	case "leakyrelu":
		a := Activation{Method: ActivationLeakyReLU, Alpha: DefaultLeakyReLUAlpha}
		if err := parseParams(params, param{&a.Alpha, "alpha", notNaN}); err != nil {
			return Activation{}, err
		}
		return a, nil
	default:
		return Activation{}, fmt.Errorf("%w: activation %q", ErrUnknownVariant, method)
	}
}

// ParseInitialization parses "uniform", "he[,uniform|normal]" or
// "xavier[,uniform|normal]". The distribution defaults to uniform.
func ParseInitialization(s string) (Initialization, error) {
	method, params := splitDescriptor(s)
	var init Initialization
	switch method {
	case "uniform":
		return Initialization{Method: InitUniform}, nil
	case "he":
		init.Method = InitHe
	case "xavier":
		init.Method = InitXavier
	default:
		return Initialization{}, fmt.Errorf("%w: initialization %q", ErrUnknownVariant, method)
	}
	init.Dist = DistUniform
	if len(params) > 0 {
		init.Dist = Distribution(strings.ToLower(params[0]))
	}
	if init.Dist != DistUniform && init.Dist != DistNormal {
		return Initialization{}, fmt.Errorf("%w: %s distribution %q", ErrConfiguration, init.Method, init.Dist)
	}
	return init, nil
}

// ParseLossFunction parses "cce[,eps]" or
// "weightedbce[,posWeight[,negWeight[,eps]]]".
func ParseLossFunction(s string) (LossFunction, error) {
	method, params := splitDescriptor(s)
	switch method {
	case "cce":
		l := LossFunction{Method: LossCCE, Eps: 1e-9}
		err := parseParams(params, param{&l.Eps, "eps", halfOpenEps})
		return l, err
	case "weightedbce":
		l := LossFunction{Method: LossWeightedBCE, PosWeight: 1, NegWeight: 1, Eps: 1e-9}
		err := parseParams(params,
			param{&l.PosWeight, "posWeight", positive},
			param{&l.NegWeight, "negWeight", positive},
			param{&l.Eps, "eps", halfOpenEps},
		)
		return l, err
	default:
		return LossFunction{}, fmt.Errorf("%w: loss %q", ErrUnknownVariant, method)
	}
}

// ParseRegularization parses "l2,lambda". An empty string means no
// regularization and yields nil.
func ParseRegularization(s string) (*Regularization, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	method, params := splitDescriptor(s)
	switch method {
	case "l2":
		r := &Regularization{Method: RegularizationL2}
		if len(params) == 0 {
			return nil, fmt.Errorf("%w: L2 needs a lambda", ErrConfiguration)
		}
		if err := parseParams(params, param{&r.Lambda, "lambda", nonNegative}); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: regularization %q", ErrUnknownVariant, method)
	}
}

// ParseOptimization parses one of
//
//	sgd[,lr]
//	momentumsgd|msgd[,lr[,alpha]]
//	adagrad[,lr[,eps]]
//	rmsprop[,rho[,lr[,eps]]]
//	adam[,lr[,beta1[,beta2[,eps]]]]
//	adamw[,weightDecay[,lr[,beta1[,beta2[,eps]]]]]
//
// and fills the remaining hyperparameters with their defaults.
func ParseOptimization(s string) (Optimization, error) {
	method, params := splitDescriptor(s)
	var o Optimization
	var err error
	switch method {
	case "sgd":
		o.Method = OptimizerSGD
		err = parseParams(params, param{&o.LearningRate, "learning rate", positive})
	case "momentumsgd", "msgd":
		o.Method = OptimizerMomentumSGD
		err = parseParams(params,
			param{&o.LearningRate, "learning rate", positive},
			param{&o.Alpha, "alpha", unitInterval},
		)
	case "adagrad":
		o.Method = OptimizerAdaGrad
		err = parseParams(params,
			param{&o.LearningRate, "learning rate", positive},
			param{&o.Eps, "eps", positive},
		)
	case "rmsprop":
		o.Method = OptimizerRMSProp
		err = parseParams(params,
			param{&o.Rho, "rho", unitInterval},
			param{&o.LearningRate, "learning rate", positive},
			param{&o.Eps, "eps", positive},
		)
	case "adam", "adamw":
		o.Method = OptimizerAdam
		adam := []param{
			{&o.LearningRate, "learning rate", positive},
			{&o.Beta1, "beta1", unitInterval},
			{&o.Beta2, "beta2", unitInterval},
			{&o.Eps, "eps", positive},
		}
		if method == "adamw" {
			o.Method = OptimizerAdamW
			adam = append([]param{{&o.WeightDecay, "weight decay", nonNegative}}, adam...)
		}
		err = parseParams(params, adam...)
	default:
		return Optimization{}, fmt.Errorf("%w: optimizer %q", ErrUnknownVariant, method)
	}
	if err != nil {
		return Optimization{}, fmt.Errorf("%s: %w", o.Method, err)
	}
	return o.WithDefaults()
}

// ParseEarlyStopping returns the stopping rule for metric and patience.
// An empty metric or a zero patience disables early stopping and yields nil.
func ParseEarlyStopping(metric string, patience int) (*EarlyStopping, error) {
	if metric == "" || patience == 0 {
		return nil, nil
	}
	if patience < 0 {
		return nil, fmt.Errorf("%w: patience %d must not be negative", ErrConfiguration, patience)
	}
	var m Metric
	switch strings.ToLower(metric) {
	case "loss":
		m = MetricLoss
	case "accuracy":
		m = MetricAccuracy
	case "precision":
		m = MetricPrecision
	case "recall":
		m = MetricRecall
	case "f1score", "f1":
		m = MetricF1Score
	default:
		return nil, fmt.Errorf("%w: early stopping metric %q", ErrUnknownVariant, metric)
	}
	return &EarlyStopping{Metric: m, Patience: patience}, nil
}

// ParseHiddenSizes parses a comma-separated list of positive layer sizes.
func ParseHiddenSizes(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	fields := strings.Split(s, ",")
	sizes := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: hidden layer size %q", ErrConfiguration, f)
		}
		sizes[i] = n
	}
	return sizes, nil
}

func splitDescriptor(s string) (string, []string) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.ToLower(parts[0]), parts[1:]
}

// param binds one positional descriptor parameter to its destination.
type param struct {
	dst   *float64
	name  string
	valid func(float64) bool
}

func notNaN(v float64) bool       { return !math.IsNaN(v) }
func positive(v float64) bool     { return v > 0 }
func nonNegative(v float64) bool  { return v >= 0 }
func unitInterval(v float64) bool { return v >= 0 && v < 1 }
func halfOpenEps(v float64) bool  { return v > 0 && v < 0.5 }

func parseParams(values []string, params ...param) error {
	if len(values) > len(params) {
		return fmt.Errorf("%w: %d parameters given, at most %d accepted", ErrConfiguration, len(values), len(params))
	}
	for i, v := range values {
		p := params[i]
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !p.valid(f) {
			return fmt.Errorf("%w: invalid %s %q", ErrConfiguration, p.name, v)
		}
		*p.dst = f
	}
	return nil
}
