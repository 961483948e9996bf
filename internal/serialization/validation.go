package serialization

import (
	"fmt"
	"math"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/tensor"
)

// ValidateHeader checks the envelope fields of a model file.
func ValidateHeader(h *Header) error {
	if h.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, h.FormatVersion, FormatVersion)
	}
	return nil
}

// ValidateModel checks that m can be used for prediction and further
// training: a valid configuration, parameter shapes matching the layers,
// finite parameters and scale factors, and a consistent metric history.
func ValidateModel(m *nn.Model) error {
	if m == nil {
		return ErrMissingModel
	}
	if err := m.Validate(); err != nil {
		return &ValidationError{Type: "invalid_model", Details: err.Error(), Err: err}
	}

	for k, p := range m.Parameters {
		if !tensor.IsFiniteMat(p.Weights) || !tensor.IsFinite(p.Biases) {
			return &ValidationError{
				Type:    "non_finite",
				Field:   fmt.Sprintf("parameters[%d]", k),
				Details: "weights and biases must be finite",
				Err:     nn.ErrNumericInstability,
			}
		}
	}

	for i, sf := range m.Layers[0].ScaleFactors {
		if sf == nil {
			continue
		}
		if math.IsNaN(sf.Mean) || math.IsInf(sf.Mean, 0) || math.IsNaN(sf.Stddev) || math.IsInf(sf.Stddev, 0) || sf.Stddev < 0 {
			return &ValidationError{
				Type:    "invalid_scale_factor",
				Field:   fmt.Sprintf("layers[0].scaleFactors[%d]", i),
				Details: fmt.Sprintf("mean %g, stddev %g", sf.Mean, sf.Stddev),
				Err:     nn.ErrConfiguration,
			}
		}
	}

	if len(m.TrainMetrics) != len(m.ValMetrics) {
		return &ValidationError{
			Type:    "history_mismatch",
			Details: fmt.Sprintf("%d training epochs, %d validation epochs", len(m.TrainMetrics), len(m.ValMetrics)),
		}
	}
	if m.BestEpoch < 0 || m.BestEpoch > len(m.TrainMetrics) {
		return &ValidationError{
			Type:    "history_mismatch",
			Field:   "bestEpoch",
			Details: fmt.Sprintf("%d outside a history of %d epochs", m.BestEpoch, len(m.TrainMetrics)),
		}
	}
	return nil
}
