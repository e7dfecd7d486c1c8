// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Adagrad: per-coordinate learning rates for sparse embeddings
//   - Optimizer interface for custom optimizers
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
//	    model, _ := models.NewDCN(models.DefaultDCNConfig(), backend)
//
//	    optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.001})
//
//	    for epoch := range 10 {
//	        loss, err := models.Step(model, optimizer, batch, labels)
//	    }
//	}
//
// Step clears the tape, records the forward pass, backpropagates the loss
// plus the L2 penalty and applies the optimizer.
package optim
