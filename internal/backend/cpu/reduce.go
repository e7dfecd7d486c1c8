package cpu

import (
	"fmt"

	"github.com/born-ml/deepctr/internal/tensor"
)

type reduceKind int

const (
	reduceSum reduceKind = iota
	reduceMean
	reduceMax
)

// Sum reduces all elements to a scalar (shape []).
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	flat := x.View(tensor.Shape{x.NumElements()})
	return cpu.reduce("sum", reduceSum, flat, 0, false)
}

// SumDim sums tensor elements along dim.
//
// Example:
//
//	y := backend.SumDim(x, -1, true)  // [2, 3, 4] -> [2, 3, 1]
//	z := backend.SumDim(x, -1, false) // [2, 3, 4] -> [2, 3]
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduce("sumdim", reduceSum, x, dim, keepDim)
}

// MeanDim averages tensor elements along dim.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduce("meandim", reduceMean, x, dim, keepDim)
}

// MaxDim takes the maximum along dim.
func (cpu *CPUBackend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduce("maxdim", reduceMax, x, dim, keepDim)
}

func (cpu *CPUBackend) reduce(op string, kind reduceKind, x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) == 0 {
		panic(fmt.Sprintf("%s: cannot reduce a scalar", op))
	}
	dim = tensor.NormalizeDim(dim, len(shape))

	result := cpu.alloc(op, reducedShape(shape, dim, keepDim), x.DType())
	outer, size, inner := splitAt(shape, dim)

	switch x.DType() {
	case tensor.Float32:
		reduceKernel(result.AsFloat32(), x.AsFloat32(), outer, size, inner, kind)
	case tensor.Float64:
		reduceKernel(result.AsFloat64(), x.AsFloat64(), outer, size, inner, kind)
	case tensor.Int32:
		reduceKernel(result.AsInt32(), x.AsInt32(), outer, size, inner, kind)
	case tensor.Int64:
		reduceKernel(result.AsInt64(), x.AsInt64(), outer, size, inner, kind)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return result
}

// reduceKernel reduces src viewed as [outer, size, inner] over the middle axis.
func reduceKernel[T numeric](dst, src []T, outer, size, inner int, kind reduceKind) {
	for o := 0; o < outer; o++ {
		base := o * size * inner
		out := dst[o*inner : (o+1)*inner]
		copy(out, src[base:base+inner])
		for k := 1; k < size; k++ {
			row := src[base+k*inner : base+(k+1)*inner]
			if kind == reduceMax {
				for j, v := range row {
					if v > out[j] {
						out[j] = v
					}
				}
				continue
			}
			for j, v := range row {
				out[j] += v
			}
		}
		if kind == reduceMean {
			n := T(size)
			for j := range out {
				out[j] /= n
			}
		}
	}
}
