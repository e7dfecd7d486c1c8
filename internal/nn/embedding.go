package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/tensor"
)

// Embedding is a lookup table that maps categorical ids to dense vectors.
//
// Architecture:
//   - Weight: [NumEmbed, EmbedDim] learnable parameter
//   - Forward: indices [...] -> embeddings [..., EmbedDim]
//   - Backward: gradients scatter-add to weight rows
//
// Example:
//
//	// vocabulary of 10 ids, embedding dimension 4
//	embed := nn.NewEmbedding(10, 4, 1e-4, rng, backend)
//	ids, _ := tensor.FromSlice([]int32{3, 7}, tensor.Shape{2, 1}, backend)
//	vectors := embed.Forward(ids) // [2, 1, 4]
type Embedding[B tensor.Backend] struct {
	Weight   *Parameter[B] // [NumEmbed, EmbedDim]
	NumEmbed int
	EmbedDim int
}

// NewEmbedding creates an Embedding whose weights are drawn from N(0, std²).
func NewEmbedding[B tensor.Backend](numEmbeddings, embeddingDim int, std float64, rng *rand.Rand, backend B) *Embedding[B] {
	weight := Normal(tensor.Shape{numEmbeddings, embeddingDim}, std, rng, backend)
	return NewEmbeddingWithWeight(weight)
}

// NewEmbeddingWithWeight creates an Embedding layer with pre-initialized weights.
func NewEmbeddingWithWeight[B tensor.Backend](weight *tensor.Tensor[float32, B]) *Embedding[B] {
	shape := weight.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("embedding weight must be 2D, got shape %v", shape))
	}

	return &Embedding[B]{
		Weight:   NewParameter("embedding.weight", weight),
		NumEmbed: shape[0],
		EmbedDim: shape[1],
	}
}

// Forward looks up the embedding vector of every index.
//
// Panics if any index is out of bounds [0, NumEmbed).
func (e *Embedding[B]) Forward(indices *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	return e.Weight.Tensor().Embedding(indices)
}

// Parameters returns [weight].
func (e *Embedding[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{e.Weight}
}
