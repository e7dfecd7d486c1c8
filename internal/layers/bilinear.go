package layers

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// BilinearType selects how BilinearInteraction shares its weight matrices.
type BilinearType string

// Weight-sharing policies.
const (
	// BilinearTypeAll shares one [E, E] matrix across every pair.
	BilinearTypeAll BilinearType = "all"
	// BilinearTypeEach gives every field i its own matrix, applied to v_i.
	BilinearTypeEach BilinearType = "each"
	// BilinearTypeInteraction gives every pair (i, j) its own matrix.
	BilinearTypeInteraction BilinearType = "interaction"
)

// ParseBilinearType parses "all", "each" or "interaction".
func ParseBilinearType(s string) (BilinearType, error) {
	switch t := BilinearType(strings.ToLower(s)); t {
	case BilinearTypeAll, BilinearTypeEach, BilinearTypeInteraction:
		return t, nil
	default:
		return "", invalid("bilinear", "unknown bilinear type %q", s)
	}
}

// BilinearInteraction computes p_ij = (v_i W) ⊙ v_j for every field pair
// i < j in lexicographic order (0,1), (0,2), ..., (F-2,F-1).
//
// The transform is a bias-free linear map applied to the left operand v_i.
// The policy only changes how many matrices exist; the output is always
// [batch, F(F-1)/2, E].
type BilinearInteraction[B tensor.Backend] struct {
	fieldSize     int
	embeddingSize int
	bilinearType  BilinearType
	pairs         [][2]int
	transforms    []*nn.Linear[B]
}

// NewBilinearInteraction creates a bilinear interaction layer over fieldSize
// fields of dimension embeddingSize.
func NewBilinearInteraction[B tensor.Backend](
	fieldSize, embeddingSize int,
	bilinearType BilinearType,
	rng *rand.Rand,
	backend B,
) (*BilinearInteraction[B], error) {
	if fieldSize < 2 {
		return nil, invalid("bilinear", "at least 2 fields are required, got %d", fieldSize)
	}
	if embeddingSize <= 0 {
		return nil, invalid("bilinear", "embedding size must be positive, got %d", embeddingSize)
	}

	b := &BilinearInteraction[B]{
		fieldSize:     fieldSize,
		embeddingSize: embeddingSize,
		bilinearType:  bilinearType,
		pairs:         combinations(fieldSize),
	}

	var n int
	switch bilinearType {
	case BilinearTypeAll:
		n = 1
	case BilinearTypeEach:
		n = fieldSize
	case BilinearTypeInteraction:
		n = len(b.pairs)
	default:
		return nil, invalid("bilinear", "unknown bilinear type %q", string(bilinearType))
	}
	for range n {
		b.transforms = append(b.transforms, nn.NewLinear(embeddingSize, embeddingSize, false, rng, backend))
	}
	return b, nil
}

// combinations lists the pairs i < j of [0, n) in lexicographic order.
func combinations(n int) [][2]int {
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

// Forward computes the pairwise products of x with shape [batch, F, E].
func (b *BilinearInteraction[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 3 || shape[1] != b.fieldSize || shape[2] != b.embeddingSize {
		panic(fmt.Sprintf("BilinearInteraction.Forward: expected [batch, %d, %d], got %v",
			b.fieldSize, b.embeddingSize, shape))
	}
	batch := shape[0]

	fields := x.Chunk(b.fieldSize, 1) // F x [batch, 1, E]
	transform := func(l *nn.Linear[B], v *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return l.Forward(v.Reshape(batch, b.embeddingSize)).Reshape(batch, 1, b.embeddingSize)
	}

	// For shared and per-field policies each left operand is transformed once.
	var left []*tensor.Tensor[float32, B]
	switch b.bilinearType {
	case BilinearTypeAll:
		all := b.transforms[0].Forward(x.Reshape(batch*b.fieldSize, b.embeddingSize))
		left = all.Reshape(batch, b.fieldSize, b.embeddingSize).Chunk(b.fieldSize, 1)
	case BilinearTypeEach:
		left = make([]*tensor.Tensor[float32, B], b.fieldSize)
		for i := 0; i < b.fieldSize-1; i++ {
			left[i] = transform(b.transforms[i], fields[i])
		}
	}

	products := make([]*tensor.Tensor[float32, B], len(b.pairs))
	for p, pair := range b.pairs {
		i, j := pair[0], pair[1]
		var vi *tensor.Tensor[float32, B]
		if b.bilinearType == BilinearTypeInteraction {
			vi = transform(b.transforms[p], fields[i])
		} else {
			vi = left[i]
		}
		products[p] = vi.Mul(fields[j])
	}
	return tensor.Cat(products, 1)
}

// NumPairs returns F(F-1)/2.
func (b *BilinearInteraction[B]) NumPairs() int {
	return len(b.pairs)
}

// OutputDim returns the flattened output width F(F-1)/2 * E.
func (b *BilinearInteraction[B]) OutputDim() int {
	return len(b.pairs) * b.embeddingSize
}

// Type returns the weight-sharing policy.
func (b *BilinearInteraction[B]) Type() BilinearType {
	return b.bilinearType
}

// Parameters returns the weight matrices in policy order.
func (b *BilinearInteraction[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, l := range b.transforms {
		params = append(params, l.Parameters()...)
	}
	return params
}

// RegularizableParameters returns every weight matrix.
func (b *BilinearInteraction[B]) RegularizableParameters() []*nn.Parameter[B] {
	return b.Parameters()
}
