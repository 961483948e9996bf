package nn

import (
	"fmt"
	"math"

	"github.com/corvvs/mlp/internal/random"
)

// InitializeParams draws one LayerParameter per adjacent pair of layers.
//
// Weights are sampled element by element, row-major, layer by layer, from rng:
//
//	Uniform:        U(-0.5, 0.5)
//	He, uniform:    U(-√(6/fanIn), √(6/fanIn))
//	He, normal:     N(0, √(2/fanIn))
//	Xavier, uniform U(-√(6/(fanIn+fanOut)), √(6/(fanIn+fanOut)))
//	Xavier, normal: N(0, √(2/(fanIn+fanOut)))
//
// Biases start at zero. The same rng state and layers always produce the same
// parameters.
func InitializeParams(layers []Layer, init Initialization, rng *random.Rand) ([]LayerParameter, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrConfiguration)
	}
	if len(layers) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 layers, got %d", ErrConfiguration, len(layers))
	}

	params := make([]LayerParameter, 0, len(layers)-1)
	for k := 0; k+1 < len(layers); k++ {
		fanIn, fanOut := layers[k].Size, layers[k+1].Size
		if fanIn <= 0 || fanOut <= 0 {
			return nil, fmt.Errorf("%w: layer boundary %d has shape %dx%d", ErrConfiguration, k, fanOut, fanIn)
		}
		sample, err := sampler(init, fanIn, fanOut, rng)
		if err != nil {
			return nil, err
		}
		p := NewLayerParameter(fanIn, fanOut)
		for _, row := range p.Weights {
			for j := range row {
				row[j] = sample()
			}
		}
		params = append(params, p)
	}
	return params, nil
}

// sampler returns the weight distribution for one fanIn → fanOut boundary.
func sampler(init Initialization, fanIn, fanOut int, rng *random.Rand) (func() float64, error) {
	var variance float64
	switch init.Method {
	case InitUniform:
		return func() float64 { return rng.Uniform(-0.5, 0.5) }, nil
	case InitHe:
		variance = 2 / float64(fanIn)
	case InitXavier:
		variance = 2 / float64(fanIn+fanOut)
	default:
		return nil, fmt.Errorf("%w: initialization %q", ErrUnknownVariant, init.Method)
	}

	switch init.Dist {
	case DistUniform:
		// A uniform distribution on [-b, b] has variance b²/3.
		bound := math.Sqrt(3 * variance)
		return func() float64 { return rng.Uniform(-bound, bound) }, nil
	case DistNormal:
		stddev := math.Sqrt(variance)
		return func() float64 { return rng.Normal(0, stddev) }, nil
	default:
		return nil, fmt.Errorf("%w: %s has no distribution %q", ErrConfiguration, init.Method, init.Dist)
	}
}
