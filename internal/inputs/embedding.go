package inputs

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// EmbeddingDict owns one embedding table per distinct table name of the
// sparse columns. Tables are created in declaration order, which fixes the
// parameter order.
type EmbeddingDict[B tensor.Backend] struct {
	names  []string
	tables map[string]*nn.Embedding[B]
}

// NewEmbeddingDict creates tables of dimension embeddingSize, initialized
// from normal(0, initStd). Columns sharing a table must agree on the
// vocabulary size.
func NewEmbeddingDict[B tensor.Backend](
	columns []FeatureColumn,
	embeddingSize int,
	initStd float64,
	rng *rand.Rand,
	backend B,
) (*EmbeddingDict[B], error) {
	if embeddingSize <= 0 {
		return nil, fmt.Errorf("embedding size must be positive, got %d: %w", embeddingSize, ErrInvalidFeature)
	}
	if err := Validate(columns); err != nil {
		return nil, err
	}

	d := &EmbeddingDict[B]{tables: make(map[string]*nn.Embedding[B])}
	vocab := make(map[string]int)
	for _, f := range SparseFeatures(columns) {
		name := f.TableName()
		if size, ok := vocab[name]; ok {
			if size != f.VocabularySize {
				return nil, fmt.Errorf("embedding %q: vocabulary size %d conflicts with %d: %w",
					name, f.VocabularySize, size, ErrInvalidFeature)
			}
			continue
		}
		vocab[name] = f.VocabularySize
		d.names = append(d.names, name)
		d.tables[name] = nn.NewEmbedding(f.VocabularySize, embeddingSize, initStd, rng, backend)
	}
	return d, nil
}

// Table returns the embedding table of the named table.
func (d *EmbeddingDict[B]) Table(name string) (*nn.Embedding[B], bool) {
	e, ok := d.tables[name]
	return e, ok
}

// Len returns the number of tables.
func (d *EmbeddingDict[B]) Len() int {
	return len(d.names)
}

// Parameters returns the table weights in creation order.
func (d *EmbeddingDict[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, len(d.names))
	for _, name := range d.names {
		params = append(params, d.tables[name].Parameters()...)
	}
	return params
}

// FromFeatureColumns looks up the sparse columns of batch and slices out
// the dense ones. Sparse results have shape [rows, 1, E], dense results
// [rows, dim], both in declaration order.
func FromFeatureColumns[B tensor.Backend](
	batch *Batch,
	columns []FeatureColumn,
	index *FeatureIndex,
	dict *EmbeddingDict[B],
	backend B,
) (sparse, dense []*tensor.Tensor[float32, B]) {
	rows := batch.Rows()
	for _, c := range columns {
		span, ok := index.Span(c.Name())
		if !ok {
			panic(fmt.Sprintf("inputs: feature %q is not in the feature index", c.Name()))
		}

		switch f := c.(type) {
		case SparseFeat:
			table, ok := dict.Table(f.TableName())
			if !ok {
				panic(fmt.Sprintf("inputs: no embedding table %q", f.TableName()))
			}
			sparse = append(sparse, table.Forward(idsTensor(batch.Columns(span), backend)))
		case DenseFeat:
			values, err := tensor.FromSlice(batch.Columns(span), tensor.Shape{rows, f.Width()}, backend)
			if err != nil {
				panic(err)
			}
			dense = append(dense, values)
		}
	}
	return sparse, dense
}

// idsTensor truncates float ids to int32 with shape [rows, 1].
func idsTensor[B tensor.Backend](values []float32, backend B) *tensor.Tensor[int32, B] {
	ids := make([]int32, len(values))
	for i, v := range values {
		ids[i] = int32(v)
	}
	t, err := tensor.FromSlice(ids, tensor.Shape{len(ids), 1}, backend)
	if err != nil {
		panic(err)
	}
	return t
}

// CombinedDNNInput concatenates sparse embeddings [rows, k, E] along the
// field axis, flattens them and appends the dense values, giving
// [rows, F*E + dense].
func CombinedDNNInput[B tensor.Backend](sparse, dense []*tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	var parts []*tensor.Tensor[float32, B]
	if len(sparse) > 0 {
		s := tensor.Cat(sparse, 1) // [rows, F, E]
		shape := s.Shape()
		parts = append(parts, s.Reshape(shape[0], shape[1]*shape[2]))
	}
	if len(dense) > 0 {
		parts = append(parts, tensor.Cat(dense, 1))
	}
	if len(parts) == 0 {
		panic("inputs: no sparse or dense input for the deep part")
	}
	return tensor.Cat(parts, 1)
}
