package nn

import (
	"fmt"

	"github.com/born-ml/deepctr/internal/tensor"
)

// BCELoss computes the mean binary cross-entropy between probabilities and
// 0/1 targets:
//
//	Loss = -mean(y * log(p + eps) + (1 - y) * log(1 - p + eps))
//
// The loss is composed from differentiable primitives, so gradients flow
// back to the predictions through the tape.
type BCELoss[B tensor.Backend] struct {
	Epsilon float32
}

// NewBCELoss creates a BCE loss with eps = 1e-7.
func NewBCELoss[B tensor.Backend]() *BCELoss[B] {
	return &BCELoss[B]{Epsilon: 1e-7}
}

// Forward returns the scalar loss for predictions and targets of equal shape.
func (l *BCELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("BCELoss: predictions %v and targets %v must have the same shape",
			predictions.Shape(), targets.Shape()))
	}

	logP := predictions.AddScalar(l.Epsilon).Log()
	logNotP := predictions.Neg().AddScalar(1 + l.Epsilon).Log()
	notY := targets.Neg().AddScalar(1)

	ll := targets.Mul(logP).Add(notY.Mul(logNotP))
	n := float32(predictions.NumElements())
	return ll.Sum().MulScalar(-1 / n)
}

// Parameters returns nil; loss functions have no trainable parameters.
func (l *BCELoss[B]) Parameters() []*Parameter[B] {
	return nil
}

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// MSE is the training objective of the regression task.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward returns the scalar loss for predictions and targets of equal shape.
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic("MSELoss: predictions and targets must have the same shape")
	}

	diff := predictions.Sub(targets)
	n := float32(predictions.NumElements())
	return diff.Mul(diff).Sum().MulScalar(1 / n)
}

// Parameters returns nil; loss functions have no trainable parameters.
func (m *MSELoss[B]) Parameters() []*Parameter[B] {
	return nil
}
