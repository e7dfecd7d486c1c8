// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layers provides the feature-interaction layers CTR models are
// assembled from.
//
// Layers take field embeddings [batch, fields, embedding_dim] or their
// flattened form [batch, features]:
//   - CrossNet: explicit bounded-degree crosses x_{l+1} = x_0 (x_l^T w_l) + b_l + x_l
//   - BilinearInteraction: pairwise (v_i W) ⊙ v_j under three sharing policies
//   - CIN: vector-wise compressed interactions of xDeepFM
//   - SENET: squeeze-and-excitation field reweighting
//   - FM, BiInteractionPooling: second-order factorization terms
//   - DNN: the fully connected tower
//
// Constructors validate hyperparameters and return ErrInvalidConfiguration.
//
// Example:
//
//	backend := cpu.New()
//	rng := rand.New(rand.NewSource(1024))
//	cross, err := layers.NewCrossNet(24, 2, rng, backend)
//	out := cross.Forward(x)  // [batch, 24]
package layers

import (
	"math/rand"

	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/tensor"
)

// ErrInvalidConfiguration is returned for hyperparameters that cannot
// produce a valid layer.
var ErrInvalidConfiguration = layers.ErrInvalidConfiguration

// Regularizable exposes the parameters subject to L2 weight decay.
type Regularizable[B tensor.Backend] = layers.Regularizable[B]

// CrossNet is the cross network of DCN.
type CrossNet[B tensor.Backend] = layers.CrossNet[B]

// NewCrossNet creates a CrossNet with layerNum layers over inFeatures inputs.
func NewCrossNet[B tensor.Backend](inFeatures, layerNum int, rng *rand.Rand, backend B) (*CrossNet[B], error) {
	return layers.NewCrossNet(inFeatures, layerNum, rng, backend)
}

// BilinearType selects how BilinearInteraction shares its weight matrices.
type BilinearType = layers.BilinearType

// Weight-sharing policies.
const (
	BilinearTypeAll         = layers.BilinearTypeAll
	BilinearTypeEach        = layers.BilinearTypeEach
	BilinearTypeInteraction = layers.BilinearTypeInteraction
)

// ParseBilinearType parses "all", "each" or "interaction".
func ParseBilinearType(s string) (BilinearType, error) {
	return layers.ParseBilinearType(s)
}

// BilinearInteraction is the bilinear pairwise layer of FiBiNET.
type BilinearInteraction[B tensor.Backend] = layers.BilinearInteraction[B]

// NewBilinearInteraction creates a bilinear layer over fieldSize fields.
func NewBilinearInteraction[B tensor.Backend](
	fieldSize, embeddingSize int,
	bilinearType BilinearType,
	rng *rand.Rand,
	backend B,
) (*BilinearInteraction[B], error) {
	return layers.NewBilinearInteraction(fieldSize, embeddingSize, bilinearType, rng, backend)
}

// CIN is the Compressed Interaction Network of xDeepFM.
type CIN[B tensor.Backend] = layers.CIN[B]

// NewCIN creates a CIN over fieldSize fields with the given layer schedule.
func NewCIN[B tensor.Backend](
	fieldSize int,
	layerSizes []int,
	activation string,
	splitHalf bool,
	rng *rand.Rand,
	backend B,
) (*CIN[B], error) {
	return layers.NewCIN(fieldSize, layerSizes, activation, splitHalf, rng, backend)
}

// SqueezeType selects the SENET squeeze reduction.
type SqueezeType = layers.SqueezeType

// Squeeze reductions.
const (
	SqueezeMean = layers.SqueezeMean
	SqueezeMax  = layers.SqueezeMax
)

// SENET is the squeeze-and-excitation layer of FiBiNET.
type SENET[B tensor.Backend] = layers.SENET[B]

// NewSENET creates a SENET over fieldSize fields.
func NewSENET[B tensor.Backend](
	fieldSize, reductionRatio int,
	squeeze SqueezeType,
	rng *rand.Rand,
	backend B,
) (*SENET[B], error) {
	return layers.NewSENET(fieldSize, reductionRatio, squeeze, rng, backend)
}

// FM is the second-order factorization machine term.
type FM[B tensor.Backend] = layers.FM[B]

// NewFM creates an FM layer.
func NewFM[B tensor.Backend]() *FM[B] {
	return layers.NewFM[B]()
}

// BiInteractionPooling is the NFM pooling layer.
type BiInteractionPooling[B tensor.Backend] = layers.BiInteractionPooling[B]

// NewBiInteractionPooling creates a Bi-Interaction pooling layer.
func NewBiInteractionPooling[B tensor.Backend]() *BiInteractionPooling[B] {
	return layers.NewBiInteractionPooling[B]()
}

// DNNConfig configures the hidden layers of a DNN.
type DNNConfig = layers.DNNConfig

// DNN is a stack of fully connected layers.
type DNN[B tensor.Backend] = layers.DNN[B]

// NewDNN creates a DNN mapping inputDim features through hiddenUnits.
func NewDNN[B tensor.Backend](inputDim int, hiddenUnits []int, cfg DNNConfig, rng *rand.Rand, backend B) (*DNN[B], error) {
	return layers.NewDNN(inputDim, hiddenUnits, cfg, rng, backend)
}

// Task selects the output transform of a model.
type Task = layers.Task

// Supported tasks.
const (
	TaskBinary     = layers.TaskBinary
	TaskRegression = layers.TaskRegression
)

// ParseTask parses "binary" or "regression".
func ParseTask(s string) (Task, error) {
	return layers.ParseTask(s)
}

// PredictionLayer applies the global bias and task transform.
type PredictionLayer[B tensor.Backend] = layers.PredictionLayer[B]

// NewPredictionLayer creates a prediction head.
func NewPredictionLayer[B tensor.Backend](task Task, useBias bool, backend B) (*PredictionLayer[B], error) {
	return layers.NewPredictionLayer(task, useBias, backend)
}
