package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deepctr/internal/dataset"
	"github.com/born-ml/deepctr/internal/inputs"
)

func TestSyntheticDeterministic(t *testing.T) {
	a, err := dataset.New(dataset.DefaultOptions())
	require.NoError(t, err)
	b, err := dataset.New(dataset.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Batch.Data(), b.Batch.Data())
	assert.Equal(t, a.Labels, b.Labels)
	assert.Equal(t, a.Columns, b.Columns)
}

func TestSyntheticShape(t *testing.T) {
	data, err := dataset.New(dataset.Options{Rows: 10, SparseFields: 3, DenseFields: 1, Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, 10, data.Batch.Rows())
	assert.Equal(t, 4, data.Batch.Width())
	assert.Len(t, data.Labels, 10)
	assert.Len(t, inputs.SparseFeatures(data.Columns), 3)

	idx := inputs.NewFeatureIndex(data.Columns)
	for _, f := range inputs.SparseFeatures(data.Columns) {
		span, _ := idx.Span(f.FeatureName)
		for _, id := range data.Batch.Columns(span) {
			assert.GreaterOrEqual(t, id, float32(0))
			assert.Less(t, int(id), f.VocabularySize)
		}
	}
	for _, y := range data.Labels {
		assert.Contains(t, []float32{0, 1}, y)
	}
}

func TestSyntheticInvalid(t *testing.T) {
	_, err := dataset.New(dataset.Options{Rows: 0, SparseFields: 1})
	assert.Error(t, err)
	_, err = dataset.New(dataset.Options{Rows: 4})
	assert.Error(t, err)
}

func TestForColumns(t *testing.T) {
	columns := []inputs.FeatureColumn{
		inputs.SparseFeat{FeatureName: "C1", VocabularySize: 3},
		inputs.DenseFeat{FeatureName: "I1", Dimension: 2},
	}
	data, err := dataset.ForColumns(columns, 5, 11)
	require.NoError(t, err)
	assert.Equal(t, 3, data.Batch.Width())
	assert.Len(t, data.Labels, 5)

	part := data.Slice(1, 3)
	assert.Equal(t, 2, part.Batch.Rows())
	assert.Equal(t, data.Labels[1:3], part.Labels)

	_, err = dataset.ForColumns(columns, 0, 11)
	assert.Error(t, err)
	_, err = dataset.ForColumns([]inputs.FeatureColumn{inputs.SparseFeat{FeatureName: "C"}}, 2, 1)
	assert.Error(t, err)
}
