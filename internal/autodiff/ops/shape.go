package ops

import "github.com/born-ml/deepctr/internal/tensor"

// ReshapeOp represents a reshape; the gradient is reshaped back.
type ReshapeOp struct{ unaryOp }

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(x, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{unaryOp{input: x, output: output}}
}

// Backward reshapes the gradient to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.input.Shape())}
}

// TransposeOp represents a permutation of axes.
//
// Backward applies the inverse permutation: if output axis i came from input
// axis axes[i], the gradient's axis axes[i] comes from axis i.
type TransposeOp struct {
	unaryOp
	axes []int
}

// NewTransposeOp creates a new TransposeOp. axes must be the resolved
// permutation (never empty).
func NewTransposeOp(x, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{unaryOp: unaryOp{input: x, output: output}, axes: append([]int(nil), axes...)}
}

// Backward transposes the gradient by the inverse permutation.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}

// UnsqueezeOp represents insertion of a size-1 axis.
type UnsqueezeOp struct{ unaryOp }

// NewUnsqueezeOp creates a new UnsqueezeOp.
func NewUnsqueezeOp(x, output *tensor.RawTensor) *UnsqueezeOp {
	return &UnsqueezeOp{unaryOp{input: x, output: output}}
}

// Backward reshapes the gradient to the input shape.
func (op *UnsqueezeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.input.Shape())}
}

// SqueezeOp represents removal of a size-1 axis.
type SqueezeOp struct{ unaryOp }

// NewSqueezeOp creates a new SqueezeOp.
func NewSqueezeOp(x, output *tensor.RawTensor) *SqueezeOp {
	return &SqueezeOp{unaryOp{input: x, output: output}}
}

// Backward reshapes the gradient to the input shape.
func (op *SqueezeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.input.Shape())}
}
