package ops

import (
	"github.com/born-ml/deepctr/internal/tensor"
)

// SumOp represents a full reduction to a scalar.
type SumOp struct{ unaryOp }

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{unaryOp{input: x, output: output}}
}

// Backward broadcasts the scalar gradient over the input.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{expandTo(outputGrad, op.input.Shape(), backend)}
}

// SumDimOp represents y = sum(x, dim, keepDim).
//
// Backward:
//
//	grad_x = broadcast(grad_y, x.shape)
//
// With keepDim=false the gradient first regains the reduced axis.
type SumDimOp struct {
	unaryOp
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp. dim must be normalized.
func NewSumDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{unaryOp: unaryOp{input: x, output: output}, dim: dim, keepDim: keepDim}
}

// Backward broadcasts the gradient back over the reduced axis.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad := restoreAxis(outputGrad, op.input.Shape(), op.dim, op.keepDim, backend)
	return []*tensor.RawTensor{expandTo(grad, op.input.Shape(), backend)}
}

// MeanDimOp represents y = mean(x, dim, keepDim); each input contributes 1/n.
type MeanDimOp struct {
	unaryOp
	dim     int
	keepDim bool
}

// NewMeanDimOp creates a new MeanDimOp. dim must be normalized.
func NewMeanDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	return &MeanDimOp{unaryOp: unaryOp{input: x, output: output}, dim: dim, keepDim: keepDim}
}

// Backward broadcasts grad / n back over the reduced axis.
func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	n := op.input.Shape()[op.dim]
	grad := restoreAxis(outputGrad, op.input.Shape(), op.dim, op.keepDim, backend)
	grad = backend.MulScalar(grad, 1/float64(n))
	return []*tensor.RawTensor{expandTo(grad, op.input.Shape(), backend)}
}

// MaxDimOp represents y = max(x, dim, keepDim).
//
// The gradient is routed to the first position holding the maximum; ties
// do not split the gradient.
type MaxDimOp struct {
	unaryOp
	dim int
}

// NewMaxDimOp creates a new MaxDimOp. dim must be normalized.
func NewMaxDimOp(x, output *tensor.RawTensor, dim int) *MaxDimOp {
	return &MaxDimOp{unaryOp: unaryOp{input: x, output: output}, dim: dim}
}

// Backward scatters the gradient to the arg-max positions.
func (op *MaxDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	shape := op.input.Shape()
	outer, inner := 1, 1
	for i := 0; i < op.dim; i++ {
		outer *= shape[i]
	}
	for i := op.dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	size := shape[op.dim]

	x := floatAt(op.input)
	g := floatAt(outputGrad)

	// Flat index of the winner for every reduced position.
	winners := make(map[int]int, outer*inner)
	for o := 0; o < outer; o++ {
		for j := 0; j < inner; j++ {
			best := o * size * inner
			best += j
			for k := 1; k < size; k++ {
				idx := (o*size+k)*inner + j
				if x(idx) > x(best) {
					best = idx
				}
			}
			winners[best] = o*inner + j
		}
	}

	grad := fillLike(op.input, backend.Device(), func(i int) float64 {
		if out, ok := winners[i]; ok {
			return g(out)
		}
		return 0
	})
	return []*tensor.RawTensor{grad}
}

// restoreAxis reinserts the reduced axis as size 1 when keepDim was false.
func restoreAxis(grad *tensor.RawTensor, inShape tensor.Shape, dim int, keepDim bool, backend tensor.Backend) *tensor.RawTensor {
	if keepDim {
		return grad
	}
	shape := inShape.Clone()
	shape[dim] = 1
	return backend.Reshape(grad, shape)
}
