// Package nn implements neural network modules for deepctr.
//
// This package provides the building blocks the CTR layers are made of:
//   - Module interface: base interface for all NN components
//   - Parameter: trainable parameters with gradient tracking
//   - Linear: fully connected layer with optional bias
//   - Activations: ReLU, Sigmoid, Tanh, Identity
//   - Dropout and BatchNorm1d with train/eval modes
//   - Embedding: lookup table for categorical ids
//   - Loss functions: BCE, MSE
//   - Sequential: container for stacking layers
//
// All randomness is drawn from an explicit *rand.Rand so that a fixed seed
// reproduces a model bit for bit.
package nn

import (
	"github.com/born-ml/deepctr/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential[B](
//	    nn.NewLinear(16, 8, true, rng, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(8, 1, true, rng, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module,
	// including those of nested modules. Modules without trainable
	// parameters return nil.
	Parameters() []*Parameter[B]
}

// TrainingAware is implemented by modules whose Forward differs between
// training and inference (Dropout, BatchNorm1d, and containers of them).
type TrainingAware interface {
	SetTraining(training bool)
}

// SetTraining switches every module in mods that is TrainingAware.
func SetTraining[B tensor.Backend](training bool, mods ...Module[B]) {
	for _, m := range mods {
		if ta, ok := m.(TrainingAware); ok {
			ta.SetTraining(training)
		}
	}
}

// CountParameters returns the total number of scalar weights in params.
func CountParameters[B tensor.Backend](params []*Parameter[B]) int {
	n := 0
	for _, p := range params {
		n += p.Tensor().NumElements()
	}
	return n
}
