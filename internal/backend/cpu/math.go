package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/deepctr/internal/parallel"
	"github.com/born-ml/deepctr/internal/tensor"
)

// MulScalar multiplies every element by scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return cpu.scalar("mulscalar", x, scalar, true)
}

// AddScalar adds scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return cpu.scalar("addscalar", x, scalar, false)
}

func (cpu *CPUBackend) scalar(op string, x *tensor.RawTensor, s float64, mul bool) *tensor.RawTensor {
	result := cpu.alloc(op, x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		scalarKernel(cpu.parallel, result.AsFloat32(), x.AsFloat32(), float32(s), mul)
	case tensor.Float64:
		scalarKernel(cpu.parallel, result.AsFloat64(), x.AsFloat64(), s, mul)
	case tensor.Int32:
		scalarKernel(cpu.parallel, result.AsInt32(), x.AsInt32(), int32(s), mul)
	case tensor.Int64:
		scalarKernel(cpu.parallel, result.AsInt64(), x.AsInt64(), int64(s), mul)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}
	return result
}

func scalarKernel[T numeric](cfg parallel.Config, dst, src []T, s T, mul bool) {
	parallel.ForRows(len(dst), 1, func(lo, hi int) {
		if mul {
			for i := lo; i < hi; i++ {
				dst[i] = src[i] * s
			}
			return
		}
		for i := lo; i < hi; i++ {
			dst[i] = src[i] + s
		}
	}, cfg)
}

// Log computes the element-wise natural logarithm.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("log", x, math.Log)
}

// Sqrt computes the element-wise square root.
func (cpu *CPUBackend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sqrt", x, math.Sqrt)
}

// ReLU computes max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid computes 1 / (1 + exp(-x)) element-wise without overflow for
// large negative inputs.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sigmoid", x, sigmoid)
}

// Tanh computes the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("tanh", x, math.Tanh)
}

func sigmoid(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}

// unary maps fn over a float tensor. float32 values are computed in float64
// and rounded once.
func (cpu *CPUBackend) unary(op string, x *tensor.RawTensor, fn func(float64) float64) *tensor.RawTensor {
	result := cpu.alloc(op, x.Shape(), x.DType())
	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		parallel.ForRows(len(dst), 8, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst[i] = float32(fn(float64(src[i])))
			}
		}, cpu.parallel)
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		parallel.ForRows(len(dst), 8, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dst[i] = fn(src[i])
			}
		}, cpu.parallel)
	default:
		panic(fmt.Sprintf("%s: only float32/float64 supported, got %s", op, x.DType()))
	}
	return result
}
