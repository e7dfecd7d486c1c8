// Package inputs turns raw CTR rows into the tensors the models consume.
//
// A model is described by two lists of feature columns: the columns scored
// by the linear part and the columns fed to the deep part. Sparse columns
// hold categorical ids, dense columns hold real values. Both travel in one
// row-major Batch whose column layout is given by a FeatureIndex.
package inputs

import (
	"errors"
	"fmt"
)

// ErrInvalidFeature is returned for malformed feature columns or batches.
var ErrInvalidFeature = errors.New("invalid feature")

// FeatureColumn is either a SparseFeat or a DenseFeat.
type FeatureColumn interface {
	Name() string
	// Width is the number of batch columns the feature occupies.
	Width() int
	isFeatureColumn()
}

// SparseFeat is a categorical feature with ids in [0, VocabularySize).
//
// Features with the same EmbeddingName share one embedding table.
type SparseFeat struct {
	FeatureName    string
	VocabularySize int
	EmbeddingName  string
}

// Name returns the feature name.
func (f SparseFeat) Name() string { return f.FeatureName }

// Width returns 1.
func (f SparseFeat) Width() int { return 1 }

// TableName returns the embedding table the feature looks up.
func (f SparseFeat) TableName() string {
	if f.EmbeddingName != "" {
		return f.EmbeddingName
	}
	return f.FeatureName
}

func (SparseFeat) isFeatureColumn() {}

// DenseFeat is a real-valued feature of the given dimension.
type DenseFeat struct {
	FeatureName string
	Dimension   int
}

// Name returns the feature name.
func (f DenseFeat) Name() string { return f.FeatureName }

// Width returns the dimension (at least 1).
func (f DenseFeat) Width() int { return max(1, f.Dimension) }

func (DenseFeat) isFeatureColumn() {}

// SparseFeatures returns the sparse columns in declaration order.
func SparseFeatures(columns []FeatureColumn) []SparseFeat {
	var out []SparseFeat
	for _, c := range columns {
		if s, ok := c.(SparseFeat); ok {
			out = append(out, s)
		}
	}
	return out
}

// DenseFeatures returns the dense columns in declaration order.
func DenseFeatures(columns []FeatureColumn) []DenseFeat {
	var out []DenseFeat
	for _, c := range columns {
		if d, ok := c.(DenseFeat); ok {
			out = append(out, d)
		}
	}
	return out
}

// Combine concatenates column lists and drops repeated names, keeping the
// first occurrence.
func Combine(lists ...[]FeatureColumn) []FeatureColumn {
	seen := make(map[string]bool)
	var out []FeatureColumn
	for _, list := range lists {
		for _, c := range list {
			if seen[c.Name()] {
				continue
			}
			seen[c.Name()] = true
			out = append(out, c)
		}
	}
	return out
}

// Validate checks names, vocabulary sizes and dimensions.
func Validate(columns []FeatureColumn) error {
	for _, c := range columns {
		if c.Name() == "" {
			return fmt.Errorf("feature column without a name: %w", ErrInvalidFeature)
		}
		switch f := c.(type) {
		case SparseFeat:
			if f.VocabularySize <= 0 {
				return fmt.Errorf("sparse feature %q: vocabulary size must be positive, got %d: %w",
					f.FeatureName, f.VocabularySize, ErrInvalidFeature)
			}
		case DenseFeat:
			if f.Dimension < 0 {
				return fmt.Errorf("dense feature %q: dimension must not be negative, got %d: %w",
					f.FeatureName, f.Dimension, ErrInvalidFeature)
			}
		}
	}
	return nil
}

// ComputeInputDim returns the width of the flattened deep input: one
// embeddingSize block per sparse column plus the dense dimensions.
func ComputeInputDim(columns []FeatureColumn, embeddingSize int) int {
	dim := 0
	for _, c := range columns {
		switch f := c.(type) {
		case SparseFeat:
			dim += embeddingSize
		case DenseFeat:
			dim += f.Width()
		}
	}
	return dim
}

// DenseDim returns the total width of the dense columns.
func DenseDim(columns []FeatureColumn) int {
	dim := 0
	for _, d := range DenseFeatures(columns) {
		dim += d.Width()
	}
	return dim
}

// Span is a half-open column range [Start, End) in a batch.
type Span struct {
	Start, End int
}

// FeatureIndex maps feature names to their column span in a batch.
type FeatureIndex struct {
	spans map[string]Span
	names []string
	width int
}

// NewFeatureIndex lays the columns out left to right. Repeated names keep
// their first span.
func NewFeatureIndex(columns []FeatureColumn) *FeatureIndex {
	idx := &FeatureIndex{spans: make(map[string]Span)}
	for _, c := range Combine(columns) {
		idx.spans[c.Name()] = Span{Start: idx.width, End: idx.width + c.Width()}
		idx.names = append(idx.names, c.Name())
		idx.width += c.Width()
	}
	return idx
}

// Span returns the column range of the named feature.
func (idx *FeatureIndex) Span(name string) (Span, bool) {
	s, ok := idx.spans[name]
	return s, ok
}

// Names returns the feature names in column order.
func (idx *FeatureIndex) Names() []string {
	return append([]string(nil), idx.names...)
}

// Width returns the total number of batch columns.
func (idx *FeatureIndex) Width() int {
	return idx.width
}
