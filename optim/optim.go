// Copyright 2025 The mlp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/optim"
)

// Optimizer is an nn.Updater that reports its learning rate.
type Optimizer = optim.Optimizer

// New builds the optimizer described by cfg for a model with the given
// layers. Unset hyperparameters take their defaults.
func New(cfg nn.Optimization, layers []nn.Layer) (Optimizer, error) {
	return optim.New(cfg, layers)
}

// SGD

// SGD is plain stochastic gradient descent.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig, layers []nn.Layer) (*SGD, error) {
	return optim.NewSGD(config, layers)
}

// MomentumSGD is SGD with a velocity buffer.
type MomentumSGD = optim.MomentumSGD

// MomentumConfig contains configuration for MomentumSGD.
type MomentumConfig = optim.MomentumConfig

// NewMomentumSGD creates a new MomentumSGD optimizer.
func NewMomentumSGD(config MomentumConfig, layers []nn.Layer) (*MomentumSGD, error) {
	return optim.NewMomentumSGD(config, layers)
}

// Adaptive learning rates

// AdaGrad scales every step by the accumulated squared gradients.
type AdaGrad = optim.AdaGrad

// AdaGradConfig contains configuration for AdaGrad.
type AdaGradConfig = optim.AdaGradConfig

// NewAdaGrad creates a new AdaGrad optimizer.
func NewAdaGrad(config AdaGradConfig, layers []nn.Layer) (*AdaGrad, error) {
	return optim.NewAdaGrad(config, layers)
}

// RMSProp scales every step by a decaying average of squared gradients.
type RMSProp = optim.RMSProp

// RMSPropConfig contains configuration for RMSProp.
type RMSPropConfig = optim.RMSPropConfig

// NewRMSProp creates a new RMSProp optimizer.
func NewRMSProp(config RMSPropConfig, layers []nn.Layer) (*RMSProp, error) {
	return optim.NewRMSProp(config, layers)
}

// Adam

// Adam is Adaptive Moment Estimation with bias correction.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer.
//
// Example:
//
//	opt, err := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	}, model.Layers)
func NewAdam(config AdamConfig, layers []nn.Layer) (*Adam, error) {
	return optim.NewAdam(config, layers)
}

// AdamW is Adam with decoupled weight decay on the weights.
type AdamW = optim.AdamW

// AdamWConfig contains configuration for AdamW.
type AdamWConfig = optim.AdamWConfig

// NewAdamW creates a new AdamW optimizer.
func NewAdamW(config AdamWConfig, layers []nn.Layer) (*AdamW, error) {
	return optim.NewAdamW(config, layers)
}
