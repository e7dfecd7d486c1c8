package ops

import (
	"github.com/born-ml/deepctr/internal/tensor"
)

// CatOp represents concatenation along dim.
//
// Backward slices the output gradient back into one piece per input, in
// input order.
type CatOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
	dim    int
}

// NewCatOp creates a new CatOp. dim must be normalized.
func NewCatOp(inputs []*tensor.RawTensor, output *tensor.RawTensor, dim int) *CatOp {
	return &CatOp{
		inputs: append([]*tensor.RawTensor(nil), inputs...),
		output: output,
		dim:    dim,
	}
}

// Inputs returns the concatenated tensors.
func (op *CatOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the concatenated result.
func (op *CatOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward splits the gradient along dim.
func (op *CatOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	shape := outputGrad.Shape()
	outer, inner := 1, 1
	for i := 0; i < op.dim; i++ {
		outer *= shape[i]
	}
	for i := op.dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	elem := outputGrad.DType().Size()
	src := outputGrad.Data()
	outRow := shape[op.dim] * inner * elem

	grads := make([]*tensor.RawTensor, len(op.inputs))
	offset := 0
	for i, in := range op.inputs {
		grad, err := tensor.NewRaw(in.Shape(), outputGrad.DType(), backend.Device())
		if err != nil {
			panic(err)
		}
		block := in.Shape()[op.dim] * inner * elem
		dst := grad.Data()
		for o := 0; o < outer; o++ {
			start := o*outRow + offset
			copy(dst[o*block:(o+1)*block], src[start:start+block])
		}
		offset += block
		grads[i] = grad
	}
	return grads
}

// ChunkOp represents splitting a tensor into n equal parts along dim.
//
// Backward concatenates all output gradients back together.
type ChunkOp struct {
	input   *tensor.RawTensor
	dim     int
	outputs []*tensor.RawTensor
}

// NewChunkOp creates a new chunk operation. dim must be normalized.
func NewChunkOp(input *tensor.RawTensor, dim int, outputs []*tensor.RawTensor) *ChunkOp {
	return &ChunkOp{
		input:   input,
		dim:     dim,
		outputs: outputs,
	}
}

// Inputs returns the input tensor.
func (op *ChunkOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the first chunk. The tape uses Outputs for this op.
func (op *ChunkOp) Output() *tensor.RawTensor {
	return op.outputs[0]
}

// Outputs returns all chunks.
func (op *ChunkOp) Outputs() []*tensor.RawTensor {
	return op.outputs
}

// Backward is not meaningful for a multi-output op; the tape calls
// BackwardMulti instead.
func (op *ChunkOp) Backward(_ *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	panic("ChunkOp.Backward: multi-output operations require special handling in tape")
}

// BackwardMulti concatenates the gradients of every chunk.
func (op *ChunkOp) BackwardMulti(outputGrads []*tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	if len(outputGrads) != len(op.outputs) {
		panic("ChunkOp.BackwardMulti: expected one gradient per output")
	}
	return []*tensor.RawTensor{backend.Cat(outputGrads, op.dim)}
}
