package nn

import "errors"

// Errors returned by the training core. They are wrapped with context and
// should be matched with errors.Is.
var (
	// ErrUnknownVariant reports an unrecognized layer type, activation,
	// initialization, loss, regularization, optimizer or metric tag.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrConfiguration reports an invalid hyperparameter or topology.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNumericInstability reports a NaN or Inf produced by a loss or
	// gradient computation.
	ErrNumericInstability = errors.New("numeric instability")
)
