// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 and Float64 support
//   - NumPy-compatible broadcasting
//   - Row-blocked parallel kernels for large element-wise ops and matmuls
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/deepctr/autodiff"
//	    "github.com/born-ml/deepctr/backend/cpu"
//	    "github.com/born-ml/deepctr/models"
//	)
//
//	func main() {
//	    // Inference only
//	    backend := cpu.New()
//
//	    // Training needs gradients
//	    train := autodiff.New(cpu.New())
//	    model, err := models.NewDCN(cfg, train)
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
