// Package runlog records the progress of training runs: a plain text
// progress log for humans and a SQLite history of every run and epoch.
package runlog

import (
	"fmt"
	"io"

	"github.com/corvvs/mlp/internal/nn"
)

// ProgressWriter writes one line per epoch:
//
//	epoch trainLoss valLoss trainAcc valAcc
//
// The first call writes a header line.
type ProgressWriter struct {
	w       io.Writer
	started bool
}

// NewProgressWriter returns a ProgressWriter that writes to w.
func NewProgressWriter(w io.Writer) *ProgressWriter {
	return &ProgressWriter{w: w}
}

// RecordEpoch writes the line for one epoch.
func (p *ProgressWriter) RecordEpoch(epoch int, train, val nn.EpochMetrics) error {
	if !p.started {
		if _, err := fmt.Fprintf(p.w, "%6s %10s %10s %8s %8s\n", "epoch", "trainLoss", "valLoss", "trainAcc", "valAcc"); err != nil {
			return fmt.Errorf("write progress header: %w", err)
		}
		p.started = true
	}
	_, err := fmt.Fprintf(p.w, "%6d %10.6f %10.6f %8.4f %8.4f\n", epoch, train.Loss, val.Loss, train.Accuracy, val.Accuracy)
	if err != nil {
		return fmt.Errorf("write progress epoch %d: %w", epoch, err)
	}
	return nil
}
