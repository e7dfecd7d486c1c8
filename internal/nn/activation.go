package nn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/born-ml/deepctr/internal/tensor"
)

// ErrUnknownActivation is returned by NewActivation for unsupported names.
var ErrUnknownActivation = errors.New("unknown activation")

// ReLU applies f(x) = max(0, x) element-wise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies max(0, x).
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.ReLU()
}

// Parameters returns nil; ReLU has no trainable parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Sigmoid applies σ(x) = 1 / (1 + exp(-x)) element-wise.
//
// Sigmoid squashes values into (0, 1); it is the gate of SENET and the
// output transform of binary CTR tasks.
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies σ(x).
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Sigmoid()
}

// Parameters returns nil; Sigmoid has no trainable parameters.
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}

// Tanh applies the hyperbolic tangent element-wise.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a new Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return &Tanh[B]{}
}

// Forward applies tanh(x).
func (t *Tanh[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Tanh()
}

// Parameters returns nil; Tanh has no trainable parameters.
func (t *Tanh[B]) Parameters() []*Parameter[B] {
	return nil
}

// Identity returns its input unchanged.
type Identity[B tensor.Backend] struct{}

// NewIdentity creates a new Identity module.
func NewIdentity[B tensor.Backend]() *Identity[B] {
	return &Identity[B]{}
}

// Forward returns input.
func (i *Identity[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input
}

// Parameters returns nil.
func (i *Identity[B]) Parameters() []*Parameter[B] {
	return nil
}

// NewActivation returns the activation module registered under name:
// "relu", "sigmoid", "tanh", or "linear"/"identity"/"" for the identity.
func NewActivation[B tensor.Backend](name string) (Module[B], error) {
	switch strings.ToLower(name) {
	case "relu":
		return NewReLU[B](), nil
	case "sigmoid":
		return NewSigmoid[B](), nil
	case "tanh":
		return NewTanh[B](), nil
	case "", "linear", "identity":
		return NewIdentity[B](), nil
	default:
		return nil, fmt.Errorf("nn: %q: %w", name, ErrUnknownActivation)
	}
}
