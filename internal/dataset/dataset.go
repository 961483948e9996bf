// Package dataset loads labelled tabular data and prepares it for training:
// CSV reading and writing, per-column standardization, and the shuffled
// train/validation split.
//
// A row is one sample. Column 0 holds the label (1 for the positive class,
// 0 for the negative class); the remaining columns are numeric features.
package dataset

import (
	"errors"

	"github.com/corvvs/mlp/internal/tensor"
)

// ErrFormat reports malformed input data.
var ErrFormat = errors.New("malformed data")

// Set is a labelled batch of samples: Features[i] belongs to Labels[i].
type Set struct {
	Features tensor.Matrix
	Labels   []float64
}

// Len returns the number of samples.
func (s Set) Len() int { return len(s.Labels) }

// NumFeatures returns the feature count, 0 for an empty set.
func (s Set) NumFeatures() int { return s.Features.Shape().Cols }

// Subset returns the samples at idx, in that order. Rows are shared with s.
func (s Set) Subset(idx []int) Set {
	out := Set{
		Features: make(tensor.Matrix, len(idx)),
		Labels:   make([]float64, len(idx)),
	}
	for i, j := range idx {
		out.Features[i] = s.Features[j]
		out.Labels[i] = s.Labels[j]
	}
	return out
}

// Clone returns a deep copy of s.
func (s Set) Clone() Set {
	return Set{Features: s.Features.Clone(), Labels: append([]float64(nil), s.Labels...)}
}
