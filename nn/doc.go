// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Embedding, BatchNorm1d, Dropout
//   - Activations: ReLU, Sigmoid, Tanh
//   - Loss functions: BCELoss, MSELoss
//   - Utilities: Sequential, Module interface, Parameter
//
// The CTR-specific layers built from these live in the layers package.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/deepctr/backend/cpu"
//	    "github.com/born-ml/deepctr/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    rng := rand.New(rand.NewSource(1024))
//
//	    tower := nn.NewSequential[*cpu.Backend](
//	        nn.NewLinear(32, 16, true, rng, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	        nn.NewLinear(16, 1, true, rng, backend),
//	    )
//	    logits := tower.Forward(x)
//	}
package nn
