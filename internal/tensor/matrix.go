package tensor

import "fmt"

// Matrix is a dense row-major float64 matrix stored as a slice of rows.
type Matrix [][]float64

// NewMatrix returns a zero matrix with the given shape.
//
// The rows share one backing array.
func NewMatrix(rows, cols int) Matrix {
	data := make([]float64, rows*cols)
	m := make(Matrix, rows)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return m
}

// ZerosLike returns a zero matrix with the shape of m.
func ZerosLike(m Matrix) Matrix {
	s := m.Shape()
	return NewMatrix(s.Rows, s.Cols)
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	s := m.Shape()
	out := NewMatrix(s.Rows, s.Cols)
	for i, row := range m {
		copy(out[i], row)
	}
	return out
}

// Row returns row i as a Vector (no copy).
func (m Matrix) Row(i int) Vector {
	return m[i]
}

// Transpose returns mᵗ.
func Transpose(m Matrix) Matrix {
	s := m.Shape()
	out := NewMatrix(s.Cols, s.Rows)
	for i, row := range m {
		for j, x := range row {
			out[j][i] = x
		}
	}
	return out
}

func elementwise(op string, a, b Matrix, f func(x, y float64) float64) (Matrix, error) {
	if err := checkSameShape(op, a, b); err != nil {
		return nil, err
	}
	out := ZerosLike(a)
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return nil, fmt.Errorf("%w: %s: row %d lengths %d and %d", ErrShapeMismatch, op, i, len(a[i]), len(b[i]))
		}
		for j := range a[i] {
			out[i][j] = f(a[i][j], b[i][j])
		}
	}
	return out, nil
}

// AddMat returns a + b.
func AddMat(a, b Matrix) (Matrix, error) {
	return elementwise("add", a, b, func(x, y float64) float64 { return x + y })
}

// SubMat returns a - b.
func SubMat(a, b Matrix) (Matrix, error) {
	return elementwise("sub", a, b, func(x, y float64) float64 { return x - y })
}

// HadamardMat returns the element-wise product a ⊙ b.
func HadamardMat(a, b Matrix) (Matrix, error) {
	return elementwise("hadamard", a, b, func(x, y float64) float64 { return x * y })
}

// ScaleMat returns s·m.
func ScaleMat(m Matrix, s float64) Matrix {
	out := ZerosLike(m)
	for i, row := range m {
		for j, x := range row {
			out[i][j] = s * x
		}
	}
	return out
}

// MulMatVec returns m·v.
func MulMatVec(m Matrix, v Vector) (Vector, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("matvec: %w", err)
	}
	s := m.Shape()
	if s.Cols != len(v) {
		return nil, fmt.Errorf("%w: matvec: matrix %v, vector %d", ErrShapeMismatch, s, len(v))
	}
	out := make(Vector, s.Rows)
	for i, row := range m {
		out[i] = dot(row, v)
	}
	return out, nil
}

// MulTMatVec returns mᵗ·v without materializing the transpose.
func MulTMatVec(m Matrix, v Vector) (Vector, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("transposed matvec: %w", err)
	}
	s := m.Shape()
	if s.Rows != len(v) {
		return nil, fmt.Errorf("%w: transposed matvec: matrix %v, vector %d", ErrShapeMismatch, s, len(v))
	}
	out := make(Vector, s.Cols)
	col := make(Vector, s.Rows)
	for j := 0; j < s.Cols; j++ {
		for i, row := range m {
			col[i] = row[j]
		}
		out[j] = dot(col, v)
	}
	return out, nil
}

// MulMat returns a·b.
func MulMat(a, b Matrix) (Matrix, error) {
	if err := validateAll("matmul", a, b); err != nil {
		return nil, err
	}
	sa, sb := a.Shape(), b.Shape()
	if sa.Cols != sb.Rows {
		return nil, fmt.Errorf("%w: matmul: %v and %v", ErrShapeMismatch, sa, sb)
	}
	return MulMatTMat(a, Transpose(b))
}

// MulMatTMat returns a·bᵗ.
func MulMatTMat(a, b Matrix) (Matrix, error) {
	if err := validateAll("matmul with transposed rhs", a, b); err != nil {
		return nil, err
	}
	sa, sb := a.Shape(), b.Shape()
	if sa.Cols != sb.Cols {
		return nil, fmt.Errorf("%w: matmul with transposed rhs: %v and %v", ErrShapeMismatch, sa, sb)
	}
	out := NewMatrix(sa.Rows, sb.Rows)
	for i, ai := range a {
		for j, bj := range b {
			out[i][j] = dot(ai, bj)
		}
	}
	return out, nil
}

// MulTMatMat returns aᵗ·b.
func MulTMatMat(a, b Matrix) (Matrix, error) {
	if err := validateAll("matmul with transposed lhs", a, b); err != nil {
		return nil, err
	}
	sa, sb := a.Shape(), b.Shape()
	if sa.Rows != sb.Rows {
		return nil, fmt.Errorf("%w: matmul with transposed lhs: %v and %v", ErrShapeMismatch, sa, sb)
	}
	return MulMatTMat(Transpose(a), Transpose(b))
}

// Outer returns the outer product u ⊗ v (len(u) rows, len(v) columns).
func Outer(u, v Vector) Matrix {
	out := NewMatrix(len(u), len(v))
	for i, x := range u {
		for j, y := range v {
			out[i][j] = x * y
		}
	}
	return out
}

// AddMatX performs a += b in place.
func AddMatX(a, b Matrix) error {
	return AddScaledMatX(a, 1, b)
}

// AddScaledMatX performs a += factor·b in place.
func AddScaledMatX(a Matrix, factor float64, b Matrix) error {
	if err := checkSameShape("axpy", a, b); err != nil {
		return err
	}
	for i, row := range a {
		bi := b[i]
		if len(row) != len(bi) {
			return fmt.Errorf("%w: axpy: row %d lengths %d and %d", ErrShapeMismatch, i, len(row), len(bi))
		}
		for j := range row {
			row[j] += factor * bi[j]
		}
	}
	return nil
}

// AddOuterX performs m += u ⊗ v in place.
func AddOuterX(m Matrix, u, v Vector) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("outer accumulate: %w", err)
	}
	s := m.Shape()
	if s.Rows != len(u) || s.Cols != len(v) {
		return fmt.Errorf("%w: outer accumulate: matrix %v, vectors %d and %d", ErrShapeMismatch, s, len(u), len(v))
	}
	for i, x := range u {
		row := m[i]
		for j, y := range v {
			row[j] += x * y
		}
	}
	return nil
}

// ScaleMatX performs m *= s in place.
func ScaleMatX(m Matrix, s float64) {
	for _, row := range m {
		ScaleVecX(row, s)
	}
}
