package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/tensor"
)

// Standardize computes the population mean and standard deviation of every
// feature column of s and returns a standardized copy together with the
// factors. A column with zero deviation is only centered.
func Standardize(s Set) (Set, []*nn.ScaleFactor, error) {
	if s.Len() == 0 {
		return Set{}, nil, fmt.Errorf("%w: cannot standardize an empty set", ErrFormat)
	}
	if err := s.Features.Validate(); err != nil {
		return Set{}, nil, err
	}

	cols := s.NumFeatures()
	column := make([]float64, s.Len())
	factors := make([]*nn.ScaleFactor, cols)
	for j := 0; j < cols; j++ {
		for i, row := range s.Features {
			column[i] = row[j]
		}
		mean, stddev := stat.PopMeanStdDev(column, nil)
		factors[j] = &nn.ScaleFactor{Mean: mean, Stddev: stddev}
	}

	out, err := Apply(s, factors)
	if err != nil {
		return Set{}, nil, err
	}
	return out, factors, nil
}

// Apply standardizes a copy of s with previously computed factors. A nil
// factor leaves its column unchanged.
func Apply(s Set, factors []*nn.ScaleFactor) (Set, error) {
	out := s.Clone()
	for i, row := range out.Features {
		if len(row) != len(factors) {
			return Set{}, fmt.Errorf("%w: row %d has %d features, model expects %d",
				tensor.ErrShapeMismatch, i, len(row), len(factors))
		}
		for j, f := range factors {
			if f == nil {
				continue
			}
			row[j] -= f.Mean
			if f.Stddev > 0 {
				row[j] /= f.Stddev
			}
		}
	}
	return out, nil
}
