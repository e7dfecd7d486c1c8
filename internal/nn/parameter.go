package nn

import (
	"github.com/born-ml/deepctr/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// A layer owns its parameters exclusively. The optimizer updates the
// parameter buffer in place, so the tensor identity returned by Tensor stays
// the same for the lifetime of the layer and layers must read it on every
// Forward call.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
//	grad := weight.Grad() // nil before the first backward pass
type Parameter[B tensor.Backend] struct {
	name   string                     // e.g. "crossnet.kernel.0"
	tensor *tensor.Tensor[float32, B] // The parameter tensor
	grad   *tensor.Tensor[float32, B] // Gradient tensor (computed during backward pass)
}

// NewParameter creates a new trainable parameter from an initialized tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the gradient tensor, or nil before a backward pass.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}

// CollectGrads copies gradients for params out of a backward-pass gradient
// map. Parameters that did not contribute to the loss get a nil gradient.
func CollectGrads[B tensor.Backend](params []*Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, p := range params {
		raw, ok := grads[p.Tensor().Raw()]
		if !ok {
			p.ZeroGrad()
			continue
		}
		p.SetGrad(tensor.New[float32, B](raw, p.Tensor().Backend()))
	}
}
