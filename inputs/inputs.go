// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package inputs describes the feature columns of a CTR model and the
// batches fed to it.
//
// A batch is a row-major float32 matrix whose columns follow the
// FeatureIndex of the model: sparse features occupy one column holding the
// id, dense features occupy Dimension columns.
//
// Example:
//
//	columns := []inputs.FeatureColumn{
//	    inputs.SparseFeat{FeatureName: "user_id", VocabularySize: 1000},
//	    inputs.SparseFeat{FeatureName: "item_id", VocabularySize: 500},
//	    inputs.DenseFeat{FeatureName: "price", Dimension: 1},
//	}
//	batch, err := inputs.NewBatch(columns, map[string][]float32{
//	    "user_id": {3, 17},
//	    "item_id": {42, 8},
//	    "price":   {0.5, 1.2},
//	})
package inputs

import (
	"github.com/born-ml/deepctr/internal/inputs"
)

// ErrInvalidFeature is returned for malformed feature columns or batches.
var ErrInvalidFeature = inputs.ErrInvalidFeature

// FeatureColumn is either a SparseFeat or a DenseFeat.
type FeatureColumn = inputs.FeatureColumn

// SparseFeat is a categorical feature with ids in [0, VocabularySize).
type SparseFeat = inputs.SparseFeat

// DenseFeat is a real-valued feature of the given dimension.
type DenseFeat = inputs.DenseFeat

// Span is a half-open column range [Start, End) in a batch.
type Span = inputs.Span

// FeatureIndex maps feature names to their column span in a batch.
type FeatureIndex = inputs.FeatureIndex

// NewFeatureIndex lays the columns out left to right.
func NewFeatureIndex(columns []FeatureColumn) *FeatureIndex {
	return inputs.NewFeatureIndex(columns)
}

// Combine concatenates column lists, dropping repeated names.
func Combine(lists ...[]FeatureColumn) []FeatureColumn {
	return inputs.Combine(lists...)
}

// Validate checks names, vocabulary sizes and dimensions.
func Validate(columns []FeatureColumn) error {
	return inputs.Validate(columns)
}

// ComputeInputDim returns the flattened DNN input width for the columns.
func ComputeInputDim(columns []FeatureColumn, embeddingSize int) int {
	return inputs.ComputeInputDim(columns, embeddingSize)
}

// Batch is a row-major matrix of feature values.
type Batch = inputs.Batch

// NewBatch assembles a batch from per-feature values in column order.
func NewBatch(columns []FeatureColumn, values map[string][]float32) (*Batch, error) {
	return inputs.NewBatch(columns, values)
}

// NewBatchFromMatrix wraps a rows x width matrix already laid out by a FeatureIndex.
func NewBatchFromMatrix(data []float32, rows, width int) (*Batch, error) {
	return inputs.NewBatchFromMatrix(data, rows, width)
}
