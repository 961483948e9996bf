package train

import (
	"github.com/corvvs/mlp/internal/dataset"
	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/random"
)

// batches shuffles the indices of n samples with rng and cuts them into
// consecutive batches of size samples. A size of 0 yields a single batch;
// the last batch may be short.
func batches(n, size int, rng *random.Rand) [][]int {
	order := rng.Perm(n)
	if size <= 0 || size >= n {
		return [][]int{order}
	}
	out := make([][]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		out = append(out, order[start:end])
	}
	return out
}

// tally accumulates batch losses and confusion counts over an epoch.
type tally struct {
	lossSum        float64
	n              int
	tp, tn, fp, fn int
}

// add records the result of a batch of size samples.
func (t *tally) add(res nn.LossResult, size int) {
	t.lossSum += res.MeanLoss * float64(size)
	t.n += size
	t.tp += res.TP
	t.tn += res.TN
	t.fp += res.FP
	t.fn += res.FN
}

// metrics returns the sample-weighted mean loss and the confusion metrics.
func (t *tally) metrics() nn.EpochMetrics {
	var loss float64
	if t.n > 0 {
		loss = t.lossSum / float64(t.n)
	}
	return nn.ComputeMetrics(loss, t.tp, t.tn, t.fp, t.fn)
}

// evaluate runs a forward pass over s and scores it without touching the
// parameters.
func evaluate(model *nn.Model, s dataset.Set, crit nn.Criterion, reg nn.Regularizer) (nn.EpochMetrics, error) {
	fwd, err := nn.Forward(s.Features, model)
	if err != nil {
		return nn.EpochMetrics{}, err
	}
	res, err := nn.ComputeLoss(s.Labels, fwd.Output(), model.Weights(), crit, reg)
	if err != nil {
		return nn.EpochMetrics{}, err
	}
	return nn.ComputeMetrics(res.MeanLoss, res.TP, res.TN, res.FP, res.FN), nil
}
