package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sum returns the sum of v using compensated (Kahan–Babuška) summation.
func Sum(v Vector) float64 {
	return floats.SumCompensated(v)
}

// Dot returns Σ a[i]*b[i] with the same compensated accumulation as Sum.
//
// The products are accumulated in place instead of materialized, so the
// hot loops of the forward and backward passes do not allocate.
func Dot(a, b Vector) (float64, error) {
	if err := checkVecLen("dot", a, b); err != nil {
		return 0, err
	}
	return dot(a, b), nil
}

// dot assumes len(a) == len(b).
func dot(a, b Vector) float64 {
	var sum, c float64
	for i, x := range a {
		p := x * b[i]
		t := sum + p
		if math.Abs(sum) >= math.Abs(p) {
			c += (sum - t) + p
		} else {
			c += (p - t) + sum
		}
		sum = t
	}
	return sum + c
}

// SquaredNorm returns Σ v[i]².
func SquaredNorm(v Vector) float64 {
	return dot(v, v)
}

// SquaredNormMat returns the squared Frobenius norm of m.
func SquaredNormMat(m Matrix) float64 {
	rows := make(Vector, len(m))
	for i, row := range m {
		rows[i] = dot(row, row)
	}
	return Sum(rows)
}

// IsFinite reports whether every element of v is neither NaN nor ±Inf.
func IsFinite(v Vector) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// IsFiniteMat reports whether every element of m is finite.
func IsFiniteMat(m Matrix) bool {
	for _, row := range m {
		if !IsFinite(row) {
			return false
		}
	}
	return true
}
