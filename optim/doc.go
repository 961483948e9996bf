// Copyright 2025 The mlp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the stateful optimizers used to train mlp models.
//
// # Overview
//
// This package contains:
//   - SGD and MomentumSGD
//   - AdaGrad and RMSProp
//   - Adam and AdamW (decoupled weight decay)
//   - New, which builds any of them from an nn.Optimization descriptor
//
// Every optimizer keeps one state buffer per layer boundary, sized from the
// model's layers, and updates parameters in place.
//
// # Basic Usage
//
//	opt, err := optim.NewAdam(optim.AdamConfig{LR: 0.001}, model.Layers)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := nn.Backward(labels, model, len(labels), fwd, opt, nil); err != nil {
//	    log.Fatal(err)
//	}
package optim
