package cpu

import (
	"fmt"

	"github.com/born-ml/deepctr/internal/parallel"
	"github.com/born-ml/deepctr/internal/tensor"
)

// Cat concatenates tensors along dim.
// All tensors must share dtype, rank and every dimension except dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	shape := tensors[0].Shape()
	ndim := len(shape)
	dtype := tensors[0].DType()
	dim = tensor.NormalizeDim(dim, ndim)

	totalDim := 0
	for i, t := range tensors {
		tShape := t.Shape()
		if len(tShape) != ndim {
			panic(fmt.Sprintf("cat: tensor %d has %d dimensions, expected %d", i, len(tShape), ndim))
		}
		if t.DType() != dtype {
			panic(fmt.Sprintf("cat: tensor %d has dtype %s, expected %s", i, t.DType(), dtype))
		}
		for d := 0; d < ndim; d++ {
			if d == dim {
				totalDim += tShape[d]
			} else if tShape[d] != shape[d] {
				panic(fmt.Sprintf("cat: tensor %d dimension %d is %d, expected %d", i, d, tShape[d], shape[d]))
			}
		}
	}

	outShape := shape.Clone()
	outShape[dim] = totalDim
	result := cpu.alloc("cat", outShape, dtype)

	outer, _, inner := splitAt(outShape, dim)
	elem := dtype.Size()
	dst := result.Data()
	outRow := totalDim * inner * elem

	parallel.ForRows(outer, outRow, func(lo, hi int) {
		for o := lo; o < hi; o++ {
			pos := o * outRow
			for _, t := range tensors {
				block := t.Shape()[dim] * inner * elem
				copy(dst[pos:pos+block], t.Data()[o*block:(o+1)*block])
				pos += block
			}
		}
	}, cpu.parallel)

	return result
}

// Chunk splits x into n equal parts along dim.
func (cpu *CPUBackend) Chunk(x *tensor.RawTensor, n, dim int) []*tensor.RawTensor {
	shape := x.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))
	if n <= 0 || shape[dim]%n != 0 {
		panic(fmt.Sprintf("chunk: dimension %d of size %d is not divisible into %d chunks", dim, shape[dim], n))
	}

	partShape := shape.Clone()
	partShape[dim] = shape[dim] / n

	outer, size, inner := splitAt(shape, dim)
	elem := x.DType().Size()
	src := x.Data()
	inRow := size * inner * elem
	block := partShape[dim] * inner * elem

	parts := make([]*tensor.RawTensor, n)
	for p := range parts {
		part := cpu.alloc("chunk", partShape, x.DType())
		dst := part.Data()
		for o := 0; o < outer; o++ {
			start := o*inRow + p*block
			copy(dst[o*block:(o+1)*block], src[start:start+block])
		}
		parts[p] = part
	}
	return parts
}

// Embedding gathers rows of weight [N, D] by int32 or int64 indices,
// producing indices.shape + [D]. Panics on an out-of-range index.
func (cpu *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D, got shape %v", wShape))
	}
	numEmbed, dim := wShape[0], wShape[1]

	var idx []int64
	switch indices.DType() {
	case tensor.Int32:
		raw := indices.AsInt32()
		idx = make([]int64, len(raw))
		for i, v := range raw {
			idx[i] = int64(v)
		}
	case tensor.Int64:
		idx = indices.AsInt64()
	default:
		panic(fmt.Sprintf("embedding: indices must be int32 or int64, got %s", indices.DType()))
	}

	outShape := append(indices.Shape().Clone(), dim)
	result := cpu.alloc("embedding", outShape, weight.DType())

	row := dim * weight.DType().Size()
	src, dst := weight.Data(), result.Data()
	for i, id := range idx {
		if id < 0 || int(id) >= numEmbed {
			panic(fmt.Sprintf("embedding: index %d out of range [0, %d)", id, numEmbed))
		}
		copy(dst[i*row:(i+1)*row], src[int(id)*row:(int(id)+1)*row])
	}
	return result
}
