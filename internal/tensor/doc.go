// Package tensor is the numeric kernel of the trainer: dense float64 vectors
// and row-major matrices with the handful of operations a fully connected
// network needs.
//
// Every function is a pure function of its operands except the X-suffixed
// variants (AddVecX, AddScaledMatX, ...), which mutate their first argument
// and are used by optimizers to avoid allocating on every step.
//
// Operations are strictly sequential and summation is compensated, so the
// result of a computation depends only on its inputs and their order:
//
//	z, err := tensor.MulMatVec(w, a) // z = W·a
//	if err != nil {
//	    return err // wraps tensor.ErrShapeMismatch
//	}
//	_ = tensor.AddVecX(z, b) // z += b
package tensor
