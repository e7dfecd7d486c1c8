// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the type-safe tensors deepctr models compute with.
//
// # Overview
//
// Every CTR layer consumes and produces Tensor[float32, B] values:
//   - field embeddings are [batch, fields, embedding_dim]
//   - flattened DNN inputs are [batch, features]
//   - predictions are [batch, 1]
//
// Arithmetic broadcasts NumPy-style. Shape errors are programming errors and
// panic with a message naming the operation.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/deepctr/backend/cpu"
//	    "github.com/born-ml/deepctr/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 3}, backend)
//	    pooled := x.SumDim(1, false)  // [1, 3]
//	    fmt.Println(pooled.Data())    // [5 7 9]
//	}
//
// # Autodiff
//
// Wrap the backend with autodiff.New to record operations and compute
// gradients with autodiff.Backward.
package tensor
