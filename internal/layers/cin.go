package layers

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// CIN is the Compressed Interaction Network of xDeepFM.
//
// Starting from X_0 = input [batch, F0, E], layer k computes
//
//	Z_k[b, h*F0+m, e] = X_{k-1}[b, h, e] * X_0[b, m, e]   // [batch, H_{k-1}*F0, E]
//	X_k = act(conv1x1(Z_k))                               // [batch, H_k, E]
//
// The 1x1 convolution is a linear projection along the row axis with a bias
// per output map. With split-half, every layer but the last forwards its
// first H_k/2 maps and pools the second H_k/2; the last layer pools all of
// them. Pooling is a plain sum over the embedding axis, and the pooled
// vectors of all layers are concatenated into [batch, FeatureMapNum()].
type CIN[B tensor.Backend] struct {
	fieldSize     int
	layerSizes    []int
	splitHalf     bool
	activation    nn.Module[B]
	convs         []*nn.Linear[B] // layer k: weight [H_k, H_{k-1}*F0], bias [H_k]
	inputRows     []int           // H_{k-1} for every layer, H_0 = F0
	featureMapNum int
}

// NewCIN creates a CIN over fieldSize fields with the given layer schedule.
// activation names the feature-map activation ("relu", "sigmoid", "tanh",
// "linear").
func NewCIN[B tensor.Backend](
	fieldSize int,
	layerSizes []int,
	activation string,
	splitHalf bool,
	rng *rand.Rand,
	backend B,
) (*CIN[B], error) {
	if fieldSize <= 0 {
		return nil, invalid("cin", "field size must be positive, got %d", fieldSize)
	}
	if len(layerSizes) == 0 {
		return nil, invalid("cin", "layer size schedule must not be empty")
	}
	act, err := nn.NewActivation[B](activation)
	if err != nil {
		return nil, invalid("cin", "%v", err)
	}

	c := &CIN[B]{
		fieldSize:  fieldSize,
		layerSizes: append([]int(nil), layerSizes...),
		splitHalf:  splitHalf,
		activation: act,
	}

	rows := fieldSize
	last := len(layerSizes) - 1
	for k, size := range layerSizes {
		if size <= 0 {
			return nil, invalid("cin", "layer %d size must be positive, got %d", k, size)
		}
		if splitHalf && k != last && size%2 != 0 {
			return nil, invalid("cin", "layer %d size must be even when splitting in half, got %d", k, size)
		}

		in := rows * fieldSize
		weight := nn.Xavier(in, size, tensor.Shape{size, in}, rng, backend)
		c.convs = append(c.convs, nn.NewLinearWithWeight(weight, true))
		c.inputRows = append(c.inputRows, rows)

		if splitHalf && k != last {
			rows = size / 2
		} else {
			rows = size
		}
		c.featureMapNum += rows
	}
	return c, nil
}

// Forward computes the pooled feature maps of x with shape [batch, F0, E].
func (c *CIN[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 3 || shape[1] != c.fieldSize {
		panic(fmt.Sprintf("CIN.Forward: expected [batch, %d, embedding], got %v", c.fieldSize, shape))
	}
	batch, embed := shape[0], shape[2]

	x0 := x.Unsqueeze(1) // [batch, 1, F0, E]
	hidden := x
	last := len(c.layerSizes) - 1
	pooled := make([]*tensor.Tensor[float32, B], 0, len(c.layerSizes))

	for k, size := range c.layerSizes {
		rows := c.inputRows[k] * c.fieldSize

		// Outer product over rows, element-wise over the embedding axis.
		z := hidden.Unsqueeze(2).Mul(x0).Reshape(batch, rows, embed)

		// 1x1 convolution: project rows for every (batch, embedding) position.
		flat := z.Transpose(0, 2, 1).Reshape(batch*embed, rows)
		maps := c.convs[k].Forward(flat).Reshape(batch, embed, size).Transpose(0, 2, 1)
		maps = c.activation.Forward(maps) // [batch, H_k, E]

		if c.splitHalf && k != last {
			halves := maps.Chunk(2, 1)
			hidden = halves[0]
			pooled = append(pooled, halves[1])
		} else {
			hidden = maps
			pooled = append(pooled, maps)
		}
	}

	return tensor.Cat(pooled, 1).SumDim(-1, false)
}

// FeatureMapNum returns the output width: sum(H_1..H_{K-1})/2 + H_K with
// split-half, sum(H_1..H_K) otherwise.
func (c *CIN[B]) FeatureMapNum() int {
	return c.featureMapNum
}

// LayerSizes returns a copy of the layer schedule.
func (c *CIN[B]) LayerSizes() []int {
	return append([]int(nil), c.layerSizes...)
}

// Parameters returns the convolution weights and biases, layer by layer.
func (c *CIN[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, conv := range c.convs {
		params = append(params, conv.Parameters()...)
	}
	return params
}

// RegularizableParameters returns the convolution weights.
func (c *CIN[B]) RegularizableParameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, len(c.convs))
	for _, conv := range c.convs {
		params = append(params, conv.Weight())
	}
	return params
}
