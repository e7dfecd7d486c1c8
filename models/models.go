// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package models provides the CTR architectures: DCN, xDeepFM, FiBiNET,
// DeepFM and NFM.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/deepctr/autodiff"
//	    "github.com/born-ml/deepctr/backend/cpu"
//	    "github.com/born-ml/deepctr/models"
//	    "github.com/born-ml/deepctr/optim"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    cfg := models.DefaultFiBiNETConfig()
//	    cfg.LinearFeatureColumns = columns
//	    cfg.DNNFeatureColumns = columns
//	    model, err := models.NewFiBiNET(cfg, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//	    loss, err := models.Step(model, opt, batch, labels)
//	    scores := models.Predict(model, batch)
//	}
//
// Batches must follow the model's FeatureIndex; build them with
// model.NewBatch or inputs.NewBatch over model.FeatureColumns().
package models

import (
	"github.com/born-ml/deepctr/internal/autodiff"
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/models"
	"github.com/born-ml/deepctr/internal/optim"
	"github.com/born-ml/deepctr/internal/tensor"
)

// Errors returned by the model constructors.
var (
	ErrInvalidConfiguration       = models.ErrInvalidConfiguration
	ErrUnimplementedConfiguration = models.ErrUnimplementedConfiguration
)

// Model is a CTR model over a tensor backend.
type Model[B tensor.Backend] = models.Model[B]

// Config holds the hyperparameters shared by every model.
type Config = models.Config

// DefaultConfig returns the shared defaults.
func DefaultConfig() Config { return models.DefaultConfig() }

// DCN

// DCNConfig configures the Deep & Cross Network.
type DCNConfig = models.DCNConfig

// DCN is the Deep & Cross Network.
type DCN[B tensor.Backend] = models.DCN[B]

// DefaultDCNConfig returns the DCN defaults.
func DefaultDCNConfig() DCNConfig { return models.DefaultDCNConfig() }

// NewDCN builds a DCN.
func NewDCN[B tensor.Backend](cfg DCNConfig, backend B) (*DCN[B], error) {
	return models.NewDCN(cfg, backend)
}

// xDeepFM

// XDeepFMConfig configures xDeepFM.
type XDeepFMConfig = models.XDeepFMConfig

// XDeepFM combines a linear part, a CIN and a DNN.
type XDeepFM[B tensor.Backend] = models.XDeepFM[B]

// DefaultXDeepFMConfig returns the xDeepFM defaults.
func DefaultXDeepFMConfig() XDeepFMConfig { return models.DefaultXDeepFMConfig() }

// NewXDeepFM builds an xDeepFM.
func NewXDeepFM[B tensor.Backend](cfg XDeepFMConfig, backend B) (*XDeepFM[B], error) {
	return models.NewXDeepFM(cfg, backend)
}

// FiBiNET

// FiBiNETConfig configures FiBiNET.
type FiBiNETConfig = models.FiBiNETConfig

// FiBiNET combines SENET reweighting with bilinear interactions.
type FiBiNET[B tensor.Backend] = models.FiBiNET[B]

// DefaultFiBiNETConfig returns the FiBiNET defaults.
func DefaultFiBiNETConfig() FiBiNETConfig { return models.DefaultFiBiNETConfig() }

// NewFiBiNET builds a FiBiNET.
func NewFiBiNET[B tensor.Backend](cfg FiBiNETConfig, backend B) (*FiBiNET[B], error) {
	return models.NewFiBiNET(cfg, backend)
}

// DeepFM

// DeepFMConfig configures DeepFM.
type DeepFMConfig = models.DeepFMConfig

// DeepFM sums a linear part, an FM term and a DNN.
type DeepFM[B tensor.Backend] = models.DeepFM[B]

// DefaultDeepFMConfig returns the DeepFM defaults.
func DefaultDeepFMConfig() DeepFMConfig { return models.DefaultDeepFMConfig() }

// NewDeepFM builds a DeepFM.
func NewDeepFM[B tensor.Backend](cfg DeepFMConfig, backend B) (*DeepFM[B], error) {
	return models.NewDeepFM(cfg, backend)
}

// NFM

// NFMConfig configures NFM.
type NFMConfig = models.NFMConfig

// NFM feeds Bi-Interaction pooling into a DNN.
type NFM[B tensor.Backend] = models.NFM[B]

// DefaultNFMConfig returns the NFM defaults.
func DefaultNFMConfig() NFMConfig { return models.DefaultNFMConfig() }

// NewNFM builds an NFM.
func NewNFM[B tensor.Backend](cfg NFMConfig, backend B) (*NFM[B], error) {
	return models.NewNFM(cfg, backend)
}

// Training and inference

// Predict scores batch in inference mode without recording gradients.
func Predict[B tensor.Backend](m Model[B], batch *inputs.Batch) []float32 {
	return models.Predict(m, batch)
}

// Loss returns BCE for binary tasks and MSE for regression.
func Loss[B tensor.Backend](task layers.Task, predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return models.Loss(task, predictions, targets)
}

// Step runs one optimization step on batch and returns the task loss.
func Step[B autodiff.BackwardCapable](m Model[B], opt optim.Optimizer, batch *inputs.Batch, labels []float32) (float32, error) {
	return models.Step(m, opt, batch, labels)
}
