// Copyright 2025 The mlp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn describes and runs small feed-forward binary classifiers.
//
// # Overview
//
// This package contains:
//   - Model descriptors: Layer, Model, Config and the hyperparameter structs
//   - Activations: linear, sigmoid, tanh, ReLU, LeakyReLU, softmax
//   - Losses: categorical cross-entropy and weighted binary cross-entropy
//   - L2 regularization and the classification metrics
//   - Forward and Backward passes over a batch of rows
//
// # Basic Usage
//
//	import (
//	    "github.com/corvvs/mlp/nn"
//	    "github.com/corvvs/mlp/train"
//	)
//
//	func main() {
//	    cfg := nn.DefaultConfig()
//	    cfg.ScaleFactors = factors // one per feature, from standardization
//	    cfg.Optimization = nn.Optimization{Method: nn.OptimizerAdam}
//
//	    model, err := nn.NewModel(cfg, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    res, err := train.New(model).Run(ctx, trainSet, valSet)
//	}
//
// # Topology
//
// The first layer is the input layer, the last is a softmax output layer of
// size 2 and everything in between is a hidden layer with a pointwise
// activation. Output 0 is the probability of label 1.
package nn
