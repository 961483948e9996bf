package dataset

import (
	"fmt"
	"math"

	"github.com/corvvs/mlp/internal/nn"
	"github.com/corvvs/mlp/internal/random"
)

// Split shuffles s with rng and cuts it into a training set of
// floor(n·ratio) samples and a validation set with the rest.
func Split(s Set, ratio float64, rng *random.Rand) (train, val Set, err error) {
	if !(ratio > 0 && ratio < 1) {
		return Set{}, Set{}, fmt.Errorf("%w: split ratio %g must be in (0, 1)", nn.ErrConfiguration, ratio)
	}
	n := s.Len()
	numTrain := int(math.Floor(float64(n) * ratio))
	if numTrain == 0 || numTrain == n {
		return Set{}, Set{}, fmt.Errorf("%w: %d rows cannot be split with ratio %g", ErrFormat, n, ratio)
	}
	order := rng.Perm(n)
	return s.Subset(order[:numTrain]), s.Subset(order[numTrain:]), nil
}
