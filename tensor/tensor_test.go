// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deepctr/backend/cpu"
	"github.com/born-ml/deepctr/tensor"
)

// TestBackendInterface verifies that cpu.Backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.Backend)(nil)
}

func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	assert.True(t, raw.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Len(t, raw.AsFloat32(), 6)
}

func TestCreation(t *testing.T) {
	backend := cpu.New()

	assert.Equal(t, []float32{0, 0}, tensor.Zeros[float32](tensor.Shape{2}, backend).Data())
	assert.Equal(t, []float32{1, 1}, tensor.Ones[float32](tensor.Shape{2}, backend).Data())
	assert.Equal(t, []float32{7, 7}, tensor.Full[float32](tensor.Shape{2}, 7, backend).Data())

	_, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2}, backend)
	assert.Error(t, err)
}

func TestFieldPooling(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3}, backend)
	require.NoError(t, err)

	pooled := x.SumDim(1, false)
	assert.Equal(t, tensor.Shape{1, 3}, pooled.Shape())
	assert.Equal(t, []float32{5, 7, 9}, pooled.Data())

	joined := tensor.Cat([]*tensor.Tensor[float32, *cpu.Backend]{x, x}, 1)
	assert.Equal(t, tensor.Shape{1, 4, 3}, joined.Shape())
}
