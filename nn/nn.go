// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// TrainingAware is implemented by modules whose forward pass differs
// between training and evaluation (Dropout, BatchNorm1d).
type TrainingAware = nn.TrainingAware

// SetTraining switches every TrainingAware module in mods.
func SetTraining[B tensor.Backend](training bool, mods ...Module[B]) {
	nn.SetTraining(training, mods...)
}

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// CountParameters returns the total number of scalar weights in params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	return nn.CountParameters(params)
}

// CollectGrads attaches the gradients from autodiff.Backward to params.
func CollectGrads[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) {
	nn.CollectGrads(params, grads)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	rng := rand.New(rand.NewSource(1024))
//	layer := nn.NewLinear(16, 1, true, rng, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, bias bool, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, bias, rng, backend)
}

// NewLinearWithWeight creates a linear layer around an existing [out, in] weight.
func NewLinearWithWeight[B tensor.Backend](weight *tensor.Tensor[float32, B], bias bool) *Linear[B] {
	return nn.NewLinearWithWeight(weight, bias)
}

// Embedding maps integer ids to dense vectors.
type Embedding[B tensor.Backend] = nn.Embedding[B]

// NewEmbedding creates an embedding table initialized from N(0, std).
func NewEmbedding[B tensor.Backend](numEmbeddings, embeddingDim int, std float64, rng *rand.Rand, backend B) *Embedding[B] {
	return nn.NewEmbedding(numEmbeddings, embeddingDim, std, rng, backend)
}

// BatchNorm1d normalizes [batch, features] inputs per feature.
type BatchNorm1d[B tensor.Backend] = nn.BatchNorm1d[B]

// NewBatchNorm1d creates a batch norm layer over numFeatures features.
func NewBatchNorm1d[B tensor.Backend](numFeatures int, backend B) *BatchNorm1d[B] {
	return nn.NewBatchNorm1d(numFeatures, backend)
}

// Dropout zeroes inputs with probability p during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer. It panics unless 0 <= p < 1.
func NewDropout[B tensor.Backend](p float64, rng *rand.Rand) *Dropout[B] {
	return nn.NewDropout[B](p, rng)
}

// Sequential chains modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential from modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Activations

// ErrUnknownActivation is returned by NewActivation for unsupported names.
var ErrUnknownActivation = nn.ErrUnknownActivation

// ReLU activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid activation function.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Tanh activation function.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a new Tanh activation.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// NewActivation resolves "relu", "sigmoid", "tanh" or "linear" (case-insensitive).
func NewActivation[B tensor.Backend](name string) (Module[B], error) {
	return nn.NewActivation[B](name)
}

// Loss functions

// BCELoss is the mean binary cross-entropy over probabilities.
type BCELoss[B tensor.Backend] = nn.BCELoss[B]

// NewBCELoss creates a binary cross-entropy loss.
func NewBCELoss[B tensor.Backend]() *BCELoss[B] {
	return nn.NewBCELoss[B]()
}

// MSELoss is the mean squared error.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates a mean squared error loss.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return nn.NewMSELoss[B]()
}

// Initialization

// Xavier returns a Glorot-uniform tensor of the given shape.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, rng, backend)
}

// Normal returns a tensor drawn from N(0, std).
func Normal[B tensor.Backend](shape tensor.Shape, std float64, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Normal(shape, std, rng, backend)
}
