package nn

import "github.com/corvvs/mlp/internal/tensor"

// LayerParameter holds the weights and biases of one layer boundary.
//
// Weights has one row per unit of the next layer and one column per unit of
// the current layer; Biases has one entry per unit of the next layer.
//
// A LayerParameter is owned by its Model. During training it is mutated only
// by Backward, through the optimizer it is handed.
type LayerParameter struct {
	Weights tensor.Matrix `json:"weights"`
	Biases  tensor.Vector `json:"biases"`
}

// NewLayerParameter returns zero weights and biases for a fanIn → fanOut
// boundary.
func NewLayerParameter(fanIn, fanOut int) LayerParameter {
	return LayerParameter{
		Weights: tensor.NewMatrix(fanOut, fanIn),
		Biases:  tensor.NewVector(fanOut),
	}
}

// Clone returns a deep copy of p.
func (p LayerParameter) Clone() LayerParameter {
	return LayerParameter{
		Weights: p.Weights.Clone(),
		Biases:  p.Biases.Clone(),
	}
}

// FanIn returns the width of the layer feeding this boundary.
func (p LayerParameter) FanIn() int {
	return p.Weights.Shape().Cols
}

// FanOut returns the width of the layer this boundary feeds.
func (p LayerParameter) FanOut() int {
	return len(p.Biases)
}
