// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deepctr/backend/cpu"
	"github.com/born-ml/deepctr/nn"
	"github.com/born-ml/deepctr/tensor"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name   string
		module nn.Module[*cpu.Backend]
		params int
	}{
		{name: "Linear", module: nn.NewLinear(10, 5, true, rng, backend), params: 2},
		{name: "LinearNoBias", module: nn.NewLinear(10, 5, false, rng, backend), params: 1},
		{
			name: "Sequential",
			module: nn.NewSequential[*cpu.Backend](
				nn.NewLinear(10, 5, true, rng, backend),
				nn.NewReLU[*cpu.Backend](),
			),
			params: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tensor.Randn[float32](tensor.Shape{2, 10}, rng, backend)
			out := tt.module.Forward(input)
			assert.Equal(t, tensor.Shape{2, 5}, out.Shape())
			assert.Len(t, tt.module.Parameters(), tt.params)
		})
	}
}

func TestParameterInterface(t *testing.T) {
	backend := cpu.New()
	data := tensor.Zeros[float32](tensor.Shape{3, 3}, backend)

	param := nn.NewParameter("test.weight", data)
	assert.Equal(t, "test.weight", param.Name())
	assert.Same(t, data, param.Tensor())
	assert.Nil(t, param.Grad())

	grad := tensor.Ones[float32](tensor.Shape{3, 3}, backend)
	param.SetGrad(grad)
	assert.Same(t, grad, param.Grad())
	param.ZeroGrad()
	assert.Nil(t, param.Grad())
}

func TestTrainingSwitch(t *testing.T) {
	backend := cpu.New()
	drop := nn.NewDropout[*cpu.Backend](0.5, rand.New(rand.NewSource(2)))
	bn := nn.NewBatchNorm1d(4, backend)
	seq := nn.NewSequential[*cpu.Backend](bn, drop)

	nn.SetTraining[*cpu.Backend](false, seq)
	assert.False(t, drop.Training())
	assert.Equal(t, 8, nn.CountParameters(seq.Parameters()))
}

func TestActivationLookup(t *testing.T) {
	_, err := nn.NewActivation[*cpu.Backend]("prelu")
	require.ErrorIs(t, err, nn.ErrUnknownActivation)

	act, err := nn.NewActivation[*cpu.Backend]("sigmoid")
	require.NoError(t, err)
	x := tensor.Zeros[float32](tensor.Shape{1}, cpu.New())
	assert.InDelta(t, 0.5, act.Forward(x).Item(), 1e-6)
}
