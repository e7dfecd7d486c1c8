// Package dataset generates seeded synthetic CTR data for examples, the CLI
// and tests.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/inputs"
)

// Synthetic is a labeled batch together with the columns describing it.
type Synthetic struct {
	Columns []inputs.FeatureColumn
	Batch   *inputs.Batch
	Labels  []float32 // [rows], 0 or 1
}

// Options controls the generated shape.
type Options struct {
	Rows          int
	SparseFields  int
	DenseFields   int
	MaxVocabulary int   // vocabulary sizes are drawn from [1, MaxVocabulary)
	Seed          int64 // rand seed, fully determines the data
}

// DefaultOptions mirrors the usual small test set: 64 rows, 2 sparse and
// 2 dense fields.
func DefaultOptions() Options {
	return Options{Rows: 64, SparseFields: 2, DenseFields: 2, MaxVocabulary: 10, Seed: 2020}
}

// New generates a synthetic dataset. Sparse fields are named
// sparse_feature_<i>, dense fields dense_feature_<i>. Labels are drawn
// independently of the features.
func New(opts Options) (*Synthetic, error) {
	if opts.Rows <= 0 {
		return nil, fmt.Errorf("dataset: rows must be positive, got %d", opts.Rows)
	}
	if opts.SparseFields < 0 || opts.DenseFields < 0 || opts.SparseFields+opts.DenseFields == 0 {
		return nil, fmt.Errorf("dataset: need at least one field, got %d sparse and %d dense",
			opts.SparseFields, opts.DenseFields)
	}
	if opts.MaxVocabulary < 2 {
		opts.MaxVocabulary = 10
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	columns := make([]inputs.FeatureColumn, 0, opts.SparseFields+opts.DenseFields)
	for i := range opts.SparseFields {
		columns = append(columns, inputs.SparseFeat{
			FeatureName:    fmt.Sprintf("sparse_feature_%d", i),
			VocabularySize: 1 + rng.Intn(opts.MaxVocabulary-1),
		})
	}
	for i := range opts.DenseFields {
		columns = append(columns, inputs.DenseFeat{FeatureName: fmt.Sprintf("dense_feature_%d", i), Dimension: 1})
	}
	return generate(columns, opts.Rows, rng)
}

// ForColumns generates rows of data for existing columns: sparse ids
// uniform over the vocabulary, dense values uniform in [0, 1).
func ForColumns(columns []inputs.FeatureColumn, rows int, seed int64) (*Synthetic, error) {
	if rows <= 0 {
		return nil, fmt.Errorf("dataset: rows must be positive, got %d", rows)
	}
	if err := inputs.Validate(columns); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return generate(columns, rows, rand.New(rand.NewSource(seed)))
}

func generate(columns []inputs.FeatureColumn, rows int, rng *rand.Rand) (*Synthetic, error) {
	values := make(map[string][]float32, len(columns))
	for _, c := range inputs.Combine(columns) {
		v := make([]float32, rows*c.Width())
		switch f := c.(type) {
		case inputs.SparseFeat:
			for r := range v {
				v[r] = float32(rng.Intn(f.VocabularySize))
			}
		case inputs.DenseFeat:
			for r := range v {
				v[r] = rng.Float32()
			}
		}
		values[c.Name()] = v
	}

	labels := make([]float32, rows)
	for r := range labels {
		labels[r] = float32(rng.Intn(2))
	}

	batch, err := inputs.NewBatch(columns, values)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return &Synthetic{Columns: columns, Batch: batch, Labels: labels}, nil
}

// Slice returns rows [start, end) sharing storage with d.
func (d *Synthetic) Slice(start, end int) *Synthetic {
	return &Synthetic{Columns: d.Columns, Batch: d.Batch.Slice(start, end), Labels: d.Labels[start:end]}
}
