package inputs

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// LinearModel is the wide part of a model: a one-dimensional embedding per
// sparse column plus a weight per dense value, summed into one logit.
type LinearModel[B tensor.Backend] struct {
	columns    []FeatureColumn
	index      *FeatureIndex
	embeddings *EmbeddingDict[B]
	weight     *nn.Parameter[B] // [dense, 1], nil without dense columns
	backend    B
}

// NewLinearModel creates the linear scorer over columns. The index gives
// the batch layout and must contain every column.
func NewLinearModel[B tensor.Backend](
	columns []FeatureColumn,
	index *FeatureIndex,
	initStd float64,
	rng *rand.Rand,
	backend B,
) (*LinearModel[B], error) {
	for _, c := range columns {
		if _, ok := index.Span(c.Name()); !ok {
			return nil, fmt.Errorf("linear feature %q is not in the feature index: %w", c.Name(), ErrInvalidFeature)
		}
	}
	embeddings, err := NewEmbeddingDict(columns, 1, initStd, rng, backend)
	if err != nil {
		return nil, err
	}

	m := &LinearModel[B]{
		columns:    columns,
		index:      index,
		embeddings: embeddings,
		backend:    backend,
	}
	if dim := DenseDim(columns); dim > 0 {
		m.weight = nn.NewParameter("linear.weight", nn.Normal(tensor.Shape{dim, 1}, initStd, rng, backend))
	}
	return m, nil
}

// Forward returns the linear logit [rows, 1]; zeros when there are no
// columns.
func (m *LinearModel[B]) Forward(batch *Batch) *tensor.Tensor[float32, B] {
	sparse, dense := FromFeatureColumns(batch, m.columns, m.index, m.embeddings, m.backend)

	var logit *tensor.Tensor[float32, B]
	if len(sparse) > 0 {
		logit = tensor.Cat(sparse, 1).SumDim(1, false) // [rows, 1]
	}
	if len(dense) > 0 {
		d := tensor.Cat(dense, 1).MatMul(m.weight.Tensor())
		if logit == nil {
			logit = d
		} else {
			logit = logit.Add(d)
		}
	}
	if logit == nil {
		return tensor.Zeros[float32](tensor.Shape{batch.Rows(), 1}, m.backend)
	}
	return logit
}

// Parameters returns the sparse weights then the dense weight.
func (m *LinearModel[B]) Parameters() []*nn.Parameter[B] {
	params := m.embeddings.Parameters()
	if m.weight != nil {
		params = append(params, m.weight)
	}
	return params
}
