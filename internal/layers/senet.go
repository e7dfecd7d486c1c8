package layers

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// SqueezeType selects the reduction SENET applies over the embedding axis.
type SqueezeType string

// Squeeze reductions.
const (
	SqueezeMean SqueezeType = "mean"
	SqueezeMax  SqueezeType = "max"
)

// SENET reweights fields by learned importance (squeeze-and-excitation).
//
//	Z = squeeze(X)                      // [batch, F]
//	A = σ(W2 · relu(W1 · Z))            // [batch, F], each weight in (0, 1)
//	V = X * A.unsqueeze(-1)             // [batch, F, E]
//
// W1 maps F to max(1, F/ratio) and W2 maps back to F; neither has a bias.
type SENET[B tensor.Backend] struct {
	fieldSize int
	squeeze   SqueezeType
	reduce    *nn.Linear[B]
	expand    *nn.Linear[B]
}

// NewSENET creates a SENET layer for fieldSize fields.
func NewSENET[B tensor.Backend](
	fieldSize, reductionRatio int,
	squeeze SqueezeType,
	rng *rand.Rand,
	backend B,
) (*SENET[B], error) {
	if fieldSize <= 0 {
		return nil, invalid("senet", "field size must be positive, got %d", fieldSize)
	}
	if reductionRatio < 1 {
		return nil, invalid("senet", "reduction ratio must be >= 1, got %d", reductionRatio)
	}
	if squeeze == "" {
		squeeze = SqueezeMean
	}
	if squeeze != SqueezeMean && squeeze != SqueezeMax {
		return nil, invalid("senet", "unknown squeeze type %q", string(squeeze))
	}

	reduction := max(1, fieldSize/reductionRatio)
	return &SENET[B]{
		fieldSize: fieldSize,
		squeeze:   squeeze,
		reduce:    nn.NewLinear(fieldSize, reduction, false, rng, backend),
		expand:    nn.NewLinear(reduction, fieldSize, false, rng, backend),
	}, nil
}

// Forward reweights x of shape [batch, F, E]; the output has the same shape.
func (s *SENET[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 3 || shape[1] != s.fieldSize {
		panic(fmt.Sprintf("SENET.Forward: expected [batch, %d, embedding], got %v", s.fieldSize, shape))
	}

	weights := s.FieldWeights(x)
	return x.Mul(weights.Unsqueeze(-1))
}

// FieldWeights returns the excitation A of shape [batch, F]. Every weight
// lies in (0, 1) mathematically; in float32 the sigmoid rounds to exactly
// 1 once the excitation logit exceeds about 17 (and to 0 well below -80).
func (s *SENET[B]) FieldWeights(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	var z *tensor.Tensor[float32, B]
	if s.squeeze == SqueezeMax {
		z = x.MaxDim(-1, false)
	} else {
		z = x.MeanDim(-1, false)
	}
	return s.expand.Forward(s.reduce.Forward(z).ReLU()).Sigmoid()
}

// ReductionSize returns the bottleneck width max(1, F/ratio).
func (s *SENET[B]) ReductionSize() int {
	return s.reduce.OutFeatures()
}

// Parameters returns [W1, W2].
func (s *SENET[B]) Parameters() []*nn.Parameter[B] {
	return append(s.reduce.Parameters(), s.expand.Parameters()...)
}

// RegularizableParameters returns [W1, W2].
func (s *SENET[B]) RegularizableParameters() []*nn.Parameter[B] {
	return s.Parameters()
}
