package ops

import (
	"fmt"

	"github.com/born-ml/deepctr/internal/tensor"
)

// reduceBroadcast reduces a gradient to targetShape by summing over the axes
// that were broadcast in the forward pass.
//
// Example:
//
//	Forward: a[3,1] + b[3,4] -> c[3,4]
//	Backward: grad_c[3,4] -> grad_a[3,1] (sum along dim 1)
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(targetShape) {
		return grad
	}

	if len(targetShape) == 0 {
		return backend.Sum(grad)
	}

	// Leading dimensions that do not exist in the target.
	result := grad
	for len(result.Shape()) > len(targetShape) {
		result = backend.SumDim(result, 0, false)
	}

	for i, dim := range targetShape {
		if dim == 1 && result.Shape()[i] > 1 {
			result = backend.SumDim(result, i, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// expandTo broadcasts grad to shape by adding it to zeros.
func expandTo(grad *tensor.RawTensor, shape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(shape) {
		return grad
	}
	zeros, err := tensor.NewRaw(shape, grad.DType(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}
	return backend.Add(zeros, grad)
}

// fillLike allocates a tensor shaped like ref and fills it from fn, which
// receives the flat index. Only float dtypes are supported.
func fillLike(ref *tensor.RawTensor, device tensor.Device, fn func(i int) float64) *tensor.RawTensor {
	out, err := tensor.NewRaw(ref.Shape(), ref.DType(), device)
	if err != nil {
		panic(err)
	}
	switch ref.DType() {
	case tensor.Float32:
		data := out.AsFloat32()
		for i := range data {
			data[i] = float32(fn(i))
		}
	case tensor.Float64:
		data := out.AsFloat64()
		for i := range data {
			data[i] = fn(i)
		}
	default:
		panic(fmt.Sprintf("gradient: unsupported dtype %s", ref.DType()))
	}
	return out
}

// floatAt reads element i of a float tensor as float64.
func floatAt(t *tensor.RawTensor) func(i int) float64 {
	switch t.DType() {
	case tensor.Float32:
		data := t.AsFloat32()
		return func(i int) float64 { return float64(data[i]) }
	case tensor.Float64:
		data := t.AsFloat64()
		return func(i int) float64 { return data[i] }
	default:
		panic(fmt.Sprintf("gradient: unsupported dtype %s", t.DType()))
	}
}
