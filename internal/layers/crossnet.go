package layers

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// CrossNet computes explicit bounded-degree feature crosses.
//
// For l = 1..L, with x_0 the flattened input:
//
//	x_l = x_0 * (x_{l-1} · w_l) + b_l + x_{l-1}
//
// where x_{l-1} · w_l is one scalar per batch row. Layer l adds the
// degree-(l+1) cross terms with O(D) parameters instead of the O(D²) of a
// full quadratic expansion.
//
// Input shape: [batch, D]. Output shape: [batch, D].
type CrossNet[B tensor.Backend] struct {
	inFeatures int
	kernels    []*nn.Parameter[B] // L x [D, 1]
	biases     []*nn.Parameter[B] // L x [D]
}

// NewCrossNet creates a CrossNet with layerNum layers over inFeatures inputs.
// Kernels are Xavier-normal initialized, biases start at zero.
func NewCrossNet[B tensor.Backend](inFeatures, layerNum int, rng *rand.Rand, backend B) (*CrossNet[B], error) {
	if inFeatures <= 0 {
		return nil, invalid("crossnet", "input features must be positive, got %d", inFeatures)
	}
	if layerNum <= 0 {
		return nil, invalid("crossnet", "layer number must be positive, got %d", layerNum)
	}

	c := &CrossNet[B]{inFeatures: inFeatures}
	for i := range layerNum {
		kernel := nn.XavierNormal(inFeatures, 1, tensor.Shape{inFeatures, 1}, rng, backend)
		c.kernels = append(c.kernels, nn.NewParameter(fmt.Sprintf("crossnet.kernel.%d", i), kernel))
		bias := nn.Zeros(tensor.Shape{inFeatures}, backend)
		c.biases = append(c.biases, nn.NewParameter(fmt.Sprintf("crossnet.bias.%d", i), bias))
	}
	return c, nil
}

// Forward applies the cross layers to x of shape [batch, D].
func (c *CrossNet[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x0 := x
	xl := x
	for i := range c.kernels {
		dot := xl.MatMul(c.kernels[i].Tensor()) // [batch, 1]
		bias := c.biases[i].Tensor().Reshape(1, c.inFeatures)
		xl = x0.Mul(dot).Add(bias).Add(xl)
	}
	return xl
}

// LayerNum returns the number of cross layers.
func (c *CrossNet[B]) LayerNum() int {
	return len(c.kernels)
}

// OutputDim returns D.
func (c *CrossNet[B]) OutputDim() int {
	return c.inFeatures
}

// Parameters returns kernels and biases, layer by layer.
func (c *CrossNet[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, 2*len(c.kernels))
	for i := range c.kernels {
		params = append(params, c.kernels[i], c.biases[i])
	}
	return params
}

// RegularizableParameters returns the kernels.
func (c *CrossNet[B]) RegularizableParameters() []*nn.Parameter[B] {
	return append([]*nn.Parameter[B](nil), c.kernels...)
}
