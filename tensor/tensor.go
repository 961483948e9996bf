// Copyright 2025 The mlp Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/corvvs/mlp/internal/tensor"

// ErrShapeMismatch is returned when operand dimensions disagree.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// Vector is a dense float64 vector.
type Vector = tensor.Vector

// Matrix is a dense row-major float64 matrix.
type Matrix = tensor.Matrix

// Shape holds the dimensions of a Matrix.
type Shape = tensor.Shape

// NewVector returns a zero vector of length n.
func NewVector(n int) Vector { return tensor.NewVector(n) }

// NewMatrix returns a zero rows×cols matrix.
func NewMatrix(rows, cols int) Matrix { return tensor.NewMatrix(rows, cols) }

// Transpose returns the transpose of m.
func Transpose(m Matrix) Matrix { return tensor.Transpose(m) }

// MulMatVec returns m·v.
func MulMatVec(m Matrix, v Vector) (Vector, error) { return tensor.MulMatVec(m, v) }

// MulMat returns a·b.
func MulMat(a, b Matrix) (Matrix, error) { return tensor.MulMat(a, b) }

// Dot returns the compensated inner product of a and b.
func Dot(a, b Vector) (float64, error) { return tensor.Dot(a, b) }

// Sum returns the compensated sum of v.
func Sum(v Vector) float64 { return tensor.Sum(v) }
