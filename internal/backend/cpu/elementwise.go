package cpu

import (
	"fmt"

	"github.com/born-ml/deepctr/internal/parallel"
	"github.com/born-ml/deepctr/internal/tensor"
)

type binaryKind int

const (
	binaryAdd binaryKind = iota
	binarySub
	binaryMul
	binaryDiv
)

var binaryNames = [...]string{"add", "sub", "mul", "div"}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(binaryAdd, a, b)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(binarySub, a, b)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(binaryMul, a, b)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binary(binaryDiv, a, b)
}

func (cpu *CPUBackend) binary(kind binaryKind, a, b *tensor.RawTensor) *tensor.RawTensor {
	name := binaryNames[kind]
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result := cpu.alloc(name, outShape, a.DType())

	switch a.DType() {
	case tensor.Float32:
		binaryKernel(cpu.parallel, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(),
			a.Shape(), b.Shape(), outShape, binaryFunc[float32](kind))
	case tensor.Float64:
		binaryKernel(cpu.parallel, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(),
			a.Shape(), b.Shape(), outShape, binaryFunc[float64](kind))
	case tensor.Int32:
		binaryKernel(cpu.parallel, result.AsInt32(), a.AsInt32(), b.AsInt32(),
			a.Shape(), b.Shape(), outShape, binaryFunc[int32](kind))
	case tensor.Int64:
		binaryKernel(cpu.parallel, result.AsInt64(), a.AsInt64(), b.AsInt64(),
			a.Shape(), b.Shape(), outShape, binaryFunc[int64](kind))
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}

func binaryFunc[T numeric](kind binaryKind) func(x, y T) T {
	switch kind {
	case binaryAdd:
		return func(x, y T) T { return x + y }
	case binarySub:
		return func(x, y T) T { return x - y }
	case binaryMul:
		return func(x, y T) T { return x * y }
	default:
		return func(x, y T) T { return x / y }
	}
}

// binaryKernel applies fn over the broadcast of a and b into dst.
func binaryKernel[T numeric](cfg parallel.Config, dst, a, b []T, aShape, bShape, outShape tensor.Shape, fn func(x, y T) T) {
	if aShape.Equal(bShape) {
		parallel.ForRows(len(dst), 1, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst[i] = fn(a[i], b[i])
			}
		}, cfg)
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	parallel.ForRows(len(dst), len(outShape), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			ai, bi := 0, 0
			rem := i
			for d, s := range outStrides {
				c := rem / s
				rem %= s
				ai += c * aStrides[d]
				bi += c * bStrides[d]
			}
			dst[i] = fn(a[ai], b[bi])
		}
	}, cfg)
}

// broadcastStrides computes strides for reading inShape as if it had
// outShape: broadcast and padded dimensions get stride 0.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	offset := outDim - len(inShape)
	origStrides := inShape.ComputeStrides()

	strides := make([]int, outDim)
	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		if inIdx < 0 || inShape[inIdx] == 1 {
			continue
		}
		strides[i] = origStrides[inIdx]
	}
	return strides
}
