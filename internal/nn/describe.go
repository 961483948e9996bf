package nn

import (
	"fmt"
	"io"
)

// Describe writes a human-readable summary of the model configuration to w.
func (m *Model) Describe(w io.Writer) error {
	batch := fmt.Sprint(m.BatchSize)
	if m.BatchSize == 0 {
		batch = "ALL"
	}
	es := "Disabled"
	if m.EarlyStopping != nil {
		es = fmt.Sprintf("Enabled (metric=%s, patience=%d)", m.EarlyStopping.Metric, m.EarlyStopping.Patience)
	}

	lines := []string{
		fmt.Sprintf("Seed: %d", m.Seed),
		fmt.Sprintf("Split Ratio: %g", m.SplitRatio),
		fmt.Sprintf("Max Epochs: %d", m.MaxEpochs),
		fmt.Sprintf("B (Batch Size): %s", batch),
		fmt.Sprintf("Layers: %d", len(m.Layers)),
	}
	for i, l := range m.Layers {
		lines = append(lines, fmt.Sprintf(" Layer %d: %s", i, l))
	}
	lines = append(lines,
		fmt.Sprintf("Parameters Initialization Method: %s", m.Initialization),
		fmt.Sprintf("Loss Function: %s", m.LossFunction),
	)
	if m.Regularization != nil {
		lines = append(lines, fmt.Sprintf("Regularization Method: %s", m.Regularization))
	}
	lines = append(lines,
		fmt.Sprintf("Optimization Method: %s", m.Optimization),
		fmt.Sprintf("Early Stopping: %s", es),
	)
	if m.BestEpoch > 0 {
		lines = append(lines, fmt.Sprintf("Best Epoch: %d", m.BestEpoch))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
