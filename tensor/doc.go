// Copyright 2025 The mlp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the dense float64 vectors and matrices that carry
// features, parameters and gradients through an mlp model.
//
// # Basic Usage
//
//	features := tensor.NewMatrix(len(rows), numFeatures)
//	w := tensor.Matrix{{1, 0}, {0, 1}}
//	z, err := tensor.MulMatVec(w, features.Row(0))
//
// Operations that could disagree on dimensions return an error wrapping
// ErrShapeMismatch.
package tensor
