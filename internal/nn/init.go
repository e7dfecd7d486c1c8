package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/deepctr/internal/tensor"
)

// Xavier (Glorot) uniform initialization.
//
// Values are drawn from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros[float32](shape, backend)
	data := t.Data()
	for i := range data {
		//nolint:gosec // math/rand is appropriate for weight initialization
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return t
}

// XavierNormal (Glorot) normal initialization.
//
// Values are drawn from N(0, 2/(fan_in + fan_out)).
func XavierNormal[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return Normal(shape, math.Sqrt(2.0/float64(fanIn+fanOut)), rng, backend)
}

// Normal initializes a tensor from N(0, std²).
//
// This is the embedding and DNN weight policy, with std = init_std.
func Normal[B tensor.Backend](shape tensor.Shape, std float64, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = float32(rng.NormFloat64() * std)
	}
	return t
}

// Zeros creates a zero-filled float32 tensor, commonly used for biases.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a float32 tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}
