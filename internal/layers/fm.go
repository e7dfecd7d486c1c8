package layers

import (
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// FM is the second-order term of a factorization machine:
//
//	0.5 * Σ_e [ (Σ_f v_fe)² - Σ_f v_fe² ]
//
// Input shape: [batch, F, E]. Output shape: [batch, 1].
type FM[B tensor.Backend] struct{}

// NewFM creates an FM layer.
func NewFM[B tensor.Backend]() *FM[B] {
	return &FM[B]{}
}

// Forward computes the pairwise interaction score per row.
func (f *FM[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return pairwiseSum(x).SumDim(-1, false) // [batch, 1]
}

// Parameters returns nil.
func (f *FM[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

// BiInteractionPooling is the NFM pooling layer: FM's pairwise term without
// the final sum over the embedding axis.
//
// Input shape: [batch, F, E]. Output shape: [batch, 1, E].
type BiInteractionPooling[B tensor.Backend] struct{}

// NewBiInteractionPooling creates a BiInteractionPooling layer.
func NewBiInteractionPooling[B tensor.Backend]() *BiInteractionPooling[B] {
	return &BiInteractionPooling[B]{}
}

// Forward computes 0.5 * ((Σ_f v_f)² - Σ_f v_f²).
func (p *BiInteractionPooling[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return pairwiseSum(x)
}

// Parameters returns nil.
func (p *BiInteractionPooling[B]) Parameters() []*nn.Parameter[B] {
	return nil
}

// pairwiseSum returns 0.5 * ((Σ_f x)² - Σ_f x²) with shape [batch, 1, E].
func pairwiseSum[B tensor.Backend](x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	sum := x.SumDim(1, true)
	squareOfSum := sum.Mul(sum)
	sumOfSquare := x.Mul(x).SumDim(1, true)
	return squareOfSum.Sub(sumOfSquare).MulScalar(0.5)
}
