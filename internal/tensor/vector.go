package tensor

// Vector is a dense float64 vector.
type Vector []float64

// NewVector returns a zero vector of length n.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// AddVec returns a + b.
func AddVec(a, b Vector) (Vector, error) {
	if err := checkVecLen("add", a, b); err != nil {
		return nil, err
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out, nil
}

// SubVec returns a - b.
func SubVec(a, b Vector) (Vector, error) {
	if err := checkVecLen("sub", a, b); err != nil {
		return nil, err
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out, nil
}

// HadamardVec returns the element-wise product a ⊙ b.
func HadamardVec(a, b Vector) (Vector, error) {
	if err := checkVecLen("hadamard", a, b); err != nil {
		return nil, err
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out, nil
}

// ScaleVec returns s·v.
func ScaleVec(v Vector, s float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = s * x
	}
	return out
}

// Map returns f applied to every element of v.
func Map(v Vector, f func(float64) float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = f(x)
	}
	return out
}

// AddVecX performs a += b in place.
func AddVecX(a, b Vector) error {
	if err := checkVecLen("add", a, b); err != nil {
		return err
	}
	for i := range a {
		a[i] += b[i]
	}
	return nil
}

// AddScaledVecX performs a += factor·b in place.
func AddScaledVecX(a Vector, factor float64, b Vector) error {
	if err := checkVecLen("axpy", a, b); err != nil {
		return err
	}
	for i := range a {
		a[i] += factor * b[i]
	}
	return nil
}

// ScaleVecX performs v *= s in place.
func ScaleVecX(v Vector, s float64) {
	for i := range v {
		v[i] *= s
	}
}
