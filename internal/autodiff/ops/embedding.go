package ops

import (
	"fmt"

	"github.com/born-ml/deepctr/internal/tensor"
)

// EmbeddingOp represents an embedding lookup: output[i] = weight[indices[i]].
//
// Backward is a scatter-add: rows looked up several times accumulate.
//
// Example:
//
//	indices = [0, 1, 0]
//	grad_output = [[1,2], [3,4], [5,6]]
//	grad_weight[0] = [1,2] + [5,6] = [6,8]
//	grad_weight[1] = [3,4]
type EmbeddingOp struct {
	weight  *tensor.RawTensor
	indices *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewEmbeddingOp creates a new embedding operation.
func NewEmbeddingOp(weight, indices, output *tensor.RawTensor) *EmbeddingOp {
	return &EmbeddingOp{
		weight:  weight,
		indices: indices,
		output:  output,
	}
}

// Inputs returns [weight]; indices carry no gradient.
func (op *EmbeddingOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.weight}
}

// Output returns the looked-up embeddings.
func (op *EmbeddingOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward scatter-adds the output gradient into a weight-shaped gradient.
func (op *EmbeddingOp) Backward(gradOutput *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	weightShape := op.weight.Shape()
	numEmbed, dim := weightShape[0], weightShape[1]

	var idx []int
	switch op.indices.DType() {
	case tensor.Int32:
		for _, v := range op.indices.AsInt32() {
			idx = append(idx, int(v))
		}
	case tensor.Int64:
		for _, v := range op.indices.AsInt64() {
			idx = append(idx, int(v))
		}
	default:
		panic(fmt.Sprintf("embedding backward: unsupported index dtype %s", op.indices.DType()))
	}

	gradWeight, err := tensor.NewRaw(weightShape, op.weight.DType(), backend.Device())
	if err != nil {
		panic(err)
	}

	switch op.weight.DType() {
	case tensor.Float32:
		scatterAdd(gradWeight.AsFloat32(), gradOutput.AsFloat32(), idx, numEmbed, dim)
	case tensor.Float64:
		scatterAdd(gradWeight.AsFloat64(), gradOutput.AsFloat64(), idx, numEmbed, dim)
	default:
		panic(fmt.Sprintf("embedding backward: unsupported weight dtype %s", op.weight.DType()))
	}

	return []*tensor.RawTensor{gradWeight}
}

func scatterAdd[T float32 | float64](dst, grad []T, idx []int, numEmbed, dim int) {
	for i, row := range idx {
		if row < 0 || row >= numEmbed {
			panic("embedding backward: index out of bounds")
		}
		src := grad[i*dim : (i+1)*dim]
		out := dst[row*dim : (row+1)*dim]
		for j, v := range src {
			out[j] += v
		}
	}
}
