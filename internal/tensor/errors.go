package tensor

import "errors"

// ErrShapeMismatch is returned when operand dimensions disagree.
var ErrShapeMismatch = errors.New("shape mismatch")
