package tensor

import "fmt"

// Shape holds the dimensions of a Matrix.
type Shape struct {
	Rows int
	Cols int
}

// String implements fmt.Stringer.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// NumElements returns Rows*Cols.
func (s Shape) NumElements() int {
	return s.Rows * s.Cols
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	return s.Rows == other.Rows && s.Cols == other.Cols
}

// Shape returns the dimensions of m.
//
// The column count is taken from the first row; ragged matrices are
// reported by Validate, not here.
func (m Matrix) Shape() Shape {
	if len(m) == 0 {
		return Shape{}
	}
	return Shape{Rows: len(m), Cols: len(m[0])}
}

// Validate checks that every row of m has the same length.
func (m Matrix) Validate() error {
	if len(m) == 0 {
		return nil
	}
	cols := len(m[0])
	for i, row := range m {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", ErrShapeMismatch, i, len(row), cols)
		}
	}
	return nil
}

// validateAll runs Validate on every operand of op.
func validateAll(op string, ms ...Matrix) error {
	for _, m := range ms {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func checkVecLen(op string, a, b Vector) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %s: vector lengths %d and %d", ErrShapeMismatch, op, len(a), len(b))
	}
	return nil
}

func checkSameShape(op string, a, b Matrix) error {
	sa, sb := a.Shape(), b.Shape()
	if !sa.Equal(sb) {
		return fmt.Errorf("%w: %s: matrix shapes %v and %v", ErrShapeMismatch, op, sa, sb)
	}
	return nil
}
