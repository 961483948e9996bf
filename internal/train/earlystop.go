package train

import (
	"fmt"
	"math"

	"github.com/corvvs/mlp/internal/nn"
)

// ImprovementEps is the least decrease of the monitored score that counts as
// an improvement.
const ImprovementEps = 1e-5

// StaleEpochs is the number of epochs after the best one past which
// training stops regardless of patience.
const StaleEpochs = 100

// Snapshot is the best model seen so far during a run.
type Snapshot struct {
	Epoch int
	// Score is the monitored value, lower is better.
	Score float64
	// Model is a deep copy taken at Epoch; nil before the first check.
	Model *nn.Model
}

// NewSnapshot returns an empty snapshot that any score improves on.
func NewSnapshot() *Snapshot {
	return &Snapshot{Score: math.Inf(1)}
}

// StopKind classifies why early stopping fired.
type StopKind string

// Stop kinds.
const (
	StopPatience   StopKind = "patience"
	StopDivergence StopKind = "divergence"
	StopStale      StopKind = "stale"
)

// StopReason reports that training should end after Epoch.
type StopReason struct {
	Kind   StopKind
	Epoch  int
	Score  float64
	Best   float64
	Detail string
}

// String implements fmt.Stringer.
func (r *StopReason) String() string {
	return fmt.Sprintf("stopped at epoch %d (%s): %s", r.Epoch, r.Kind, r.Detail)
}

// MonitorState is Improving or Deteriorating.
type MonitorState int

// Monitor states.
const (
	Improving MonitorState = iota
	Deteriorating
)

// String implements fmt.Stringer.
func (s MonitorState) String() string {
	if s == Improving {
		return "improving"
	}
	return "deteriorating"
}

// Monitor decides, epoch by epoch, whether a run should stop.
//
// It turns the configured metric into a lower-is-better score (the loss
// itself, or 1 - metric) and counts consecutive epochs without an
// improvement of at least ImprovementEps. Check stops the run when
//   - the count reaches the patience,
//   - the score exceeds twice the best score, or
//   - the best epoch lies more than StaleEpochs behind.
//
// Without an EarlyStopping descriptor the monitor still keeps the best
// snapshot, by validation loss, but never stops.
type Monitor struct {
	es             *nn.EarlyStopping
	metric         nn.Metric
	deteriorations int
}

// NewMonitor returns a monitor for es, which may be nil.
func NewMonitor(es *nn.EarlyStopping) (*Monitor, error) {
	m := &Monitor{es: es, metric: nn.MetricLoss}
	if es == nil {
		return m, nil
	}
	if es.Patience < 0 {
		return nil, fmt.Errorf("%w: patience %d", nn.ErrConfiguration, es.Patience)
	}
	if _, err := (nn.EpochMetrics{}).Score(es.Metric); err != nil {
		return nil, err
	}
	m.metric = es.Metric
	return m, nil
}

// State returns Improving after an improvement and Deteriorating otherwise.
func (m *Monitor) State() MonitorState {
	if m.deteriorations == 0 {
		return Improving
	}
	return Deteriorating
}

// Deteriorations returns the number of consecutive epochs without
// improvement.
func (m *Monitor) Deteriorations() int { return m.deteriorations }

// Check scores the metrics of epoch (1-based). On improvement it replaces
// best with a deep copy of model; otherwise it counts a deterioration. It
// returns a non-nil StopReason when the run should end.
func (m *Monitor) Check(model *nn.Model, best *Snapshot, epoch int, metrics nn.EpochMetrics) (*StopReason, error) {
	score, err := metrics.Score(m.metric)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(score) {
		return nil, fmt.Errorf("%w: %s score is NaN", nn.ErrNumericInstability, m.metric)
	}

	if best.Model == nil || best.Score-score >= ImprovementEps {
		best.Epoch = epoch
		best.Score = score
		best.Model = model.Clone()
		best.Model.BestEpoch = epoch
		m.deteriorations = 0
		return nil, nil
	}
	m.deteriorations++

	if m.es == nil {
		return nil, nil
	}
	reason := &StopReason{Epoch: epoch, Score: score, Best: best.Score}
	switch {
	case m.deteriorations >= m.es.Patience:
		reason.Kind = StopPatience
		reason.Detail = fmt.Sprintf("%s did not improve for %d epochs", m.metric, m.deteriorations)
	case score > 2*best.Score:
		reason.Kind = StopDivergence
		reason.Detail = fmt.Sprintf("%s score %g exceeds twice the best %g", m.metric, score, best.Score)
	case best.Epoch < epoch-StaleEpochs:
		reason.Kind = StopStale
		reason.Detail = fmt.Sprintf("best epoch %d is more than %d epochs old", best.Epoch, StaleEpochs)
	default:
		return nil, nil
	}
	return reason, nil
}
