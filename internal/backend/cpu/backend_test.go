package cpu_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deepctr/internal/backend/cpu"
	"github.com/born-ml/deepctr/internal/parallel"
	"github.com/born-ml/deepctr/internal/tensor"
)

func raw32(t *testing.T, data []float32, shape ...int) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(tensor.Shape(shape), tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat32(), data)
	return r
}

func TestAdd_SameShape(t *testing.T) {
	backend := cpu.New()
	a := raw32(t, []float32{1, 2, 3, 4}, 2, 2)
	b := raw32(t, []float32{10, 20, 30, 40}, 2, 2)

	out := backend.Add(a, b)

	assert.Equal(t, []float32{11, 22, 33, 44}, out.AsFloat32())
	assert.Equal(t, []float32{1, 2, 3, 4}, a.AsFloat32(), "inputs must not be modified")
}

func TestBinary_Broadcast(t *testing.T) {
	backend := cpu.New()
	a := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	col := raw32(t, []float32{10, 20}, 2, 1)
	row := raw32(t, []float32{1, 2, 3}, 3)

	assert.Equal(t, []float32{11, 12, 13, 24, 25, 26}, backend.Add(a, col).AsFloat32())
	assert.Equal(t, []float32{1, 4, 9, 4, 10, 18}, backend.Mul(a, row).AsFloat32())
	assert.Equal(t, []float32{0, 0, 0, 3, 3, 3}, backend.Sub(a, row).AsFloat32())
	assert.Equal(t, tensor.Shape{2, 3}, backend.Div(a, col).Shape())
}

func TestBinary_BroadcastBothSides(t *testing.T) {
	backend := cpu.New()
	col := raw32(t, []float32{1, 2}, 2, 1)
	row := raw32(t, []float32{10, 20, 30}, 1, 3)

	out := backend.Add(col, row)

	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{11, 21, 31, 12, 22, 32}, out.AsFloat32())
}

func TestBinary_IncompatiblePanics(t *testing.T) {
	backend := cpu.New()
	a := raw32(t, make([]float32, 6), 2, 3)
	b := raw32(t, make([]float32, 4), 2, 2)

	assert.Panics(t, func() { backend.Add(a, b) })
}

func TestMatMul_Float32(t *testing.T) {
	backend := cpu.New()
	a := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	b := raw32(t, []float32{7, 8, 9, 10, 11, 12}, 3, 2)

	out := backend.MatMul(a, b)

	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.AsFloat32())
}

func TestMatMul_Int32(t *testing.T) {
	backend := cpu.New()
	a, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	copy(a.AsInt32(), []int32{1, 2, 3, 4})

	out := backend.MatMul(a, a)

	assert.Equal(t, []int32{7, 10, 15, 22}, out.AsInt32())
}

func TestMatMul_ShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()
	a := raw32(t, make([]float32, 6), 2, 3)

	assert.Panics(t, func() { backend.MatMul(a, a) })
}

func TestTranspose(t *testing.T) {
	backend := cpu.New()
	x := raw32(t, []float32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, 2, 3, 2)

	out := backend.Transpose(x, 0, 2, 1)

	assert.Equal(t, tensor.Shape{2, 2, 3}, out.Shape())
	assert.Equal(t, []float32{0, 2, 4, 1, 3, 5, 6, 8, 10, 7, 9, 11}, out.AsFloat32())

	m := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, backend.Transpose(m).AsFloat32())
}

func TestReshapeAndSqueezeAreViews(t *testing.T) {
	backend := cpu.New()
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3)

	r := backend.Reshape(x, tensor.Shape{3, 2})
	u := backend.Unsqueeze(x, -1)
	s := backend.Squeeze(u, 2)

	assert.Equal(t, tensor.Shape{3, 2}, r.Shape())
	assert.Equal(t, tensor.Shape{2, 3, 1}, u.Shape())
	assert.Equal(t, tensor.Shape{2, 3}, s.Shape())
	assert.NotSame(t, x, r)

	x.AsFloat32()[0] = 42
	assert.Equal(t, float32(42), r.AsFloat32()[0])
	assert.Panics(t, func() { backend.Squeeze(x, 0) })
}

func TestReductions(t *testing.T) {
	backend := cpu.New()
	x := raw32(t, []float32{1, 5, 3, 4, 2, 6}, 2, 3)

	assert.Equal(t, []float32{9, 12}, backend.SumDim(x, 1, false).AsFloat32())
	assert.Equal(t, tensor.Shape{2, 1}, backend.SumDim(x, -1, true).Shape())
	assert.Equal(t, []float32{2.5, 3.5, 4.5}, backend.MeanDim(x, 0, false).AsFloat32())
	assert.Equal(t, []float32{5, 6}, backend.MaxDim(x, 1, false).AsFloat32())

	total := backend.Sum(x)
	assert.Equal(t, 0, len(total.Shape()))
	assert.Equal(t, float32(21), total.AsFloat32()[0])
}

func TestReduce_MiddleAxis(t *testing.T) {
	backend := cpu.New()
	// [2, 2, 2]: sum over axis 1
	x := raw32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, 2, 2, 2)

	out := backend.SumDim(x, 1, false)

	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{4, 6, 12, 14}, out.AsFloat32())
}

func TestCatAndChunk(t *testing.T) {
	backend := cpu.New()
	a := raw32(t, []float32{1, 2, 3, 4}, 2, 2)
	b := raw32(t, []float32{5, 6}, 2, 1)

	out := backend.Cat([]*tensor.RawTensor{a, b}, 1)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{1, 2, 5, 3, 4, 6}, out.AsFloat32())

	x := raw32(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, 2, 4)
	parts := backend.Chunk(x, 2, 1)
	require.Len(t, parts, 2)
	assert.Equal(t, []float32{1, 2, 5, 6}, parts[0].AsFloat32())
	assert.Equal(t, []float32{3, 4, 7, 8}, parts[1].AsFloat32())

	assert.Panics(t, func() { backend.Chunk(x, 3, 1) })
}

func TestEmbedding(t *testing.T) {
	backend := cpu.New()
	weight := raw32(t, []float32{0, 0, 1, 1, 2, 2}, 3, 2)
	idx, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	copy(idx.AsInt32(), []int32{2, 0, 1, 2})

	out := backend.Embedding(weight, idx)

	assert.Equal(t, tensor.Shape{2, 2, 2}, out.Shape())
	assert.Equal(t, []float32{2, 2, 0, 0, 1, 1, 2, 2}, out.AsFloat32())

	copy(idx.AsInt32(), []int32{3, 0, 0, 0})
	assert.Panics(t, func() { backend.Embedding(weight, idx) })
}

func TestActivations(t *testing.T) {
	backend := cpu.New()
	x := raw32(t, []float32{-1000, -1, 0, 2}, 4)

	assert.Equal(t, []float32{0, 0, 0, 2}, backend.ReLU(x).AsFloat32())

	sig := backend.Sigmoid(x).AsFloat32()
	assert.InDelta(t, 0, sig[0], 1e-7)
	assert.InDelta(t, 1/(1+math.E), sig[1], 1e-6)
	assert.InDelta(t, 0.5, sig[2], 1e-7)

	th := backend.Tanh(x).AsFloat32()
	assert.InDelta(t, math.Tanh(2), th[3], 1e-6)
}

func TestScalarOps(t *testing.T) {
	backend := cpu.New()
	x := raw32(t, []float32{1, 2, 3}, 3)

	assert.Equal(t, []float32{2, 4, 6}, backend.MulScalar(x, 2).AsFloat32())
	assert.Equal(t, []float32{0.5, 1.5, 2.5}, backend.AddScalar(x, -0.5).AsFloat32())
	assert.InDeltaSlice(t, []float32{0, float32(math.Log(2)), float32(math.Log(3))}, backend.Log(x).AsFloat32(), 1e-6)
}

func TestParallelConfigDoesNotChangeResults(t *testing.T) {
	seq := cpu.NewWithConfig(parallel.Config{Enabled: false})
	par := cpu.NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})

	n := 4096
	data := make([]float32, n)
	for i := range data {
		data[i] = float32(i%17) - 8
	}
	a := raw32(t, data, 64, 64)
	b := raw32(t, data[:64], 64)

	assert.Equal(t, seq.Mul(a, b).AsFloat32(), par.Mul(a, b).AsFloat32())
	assert.Equal(t, seq.Sigmoid(a).AsFloat32(), par.Sigmoid(a).AsFloat32())
	assert.Equal(t, seq.Cat([]*tensor.RawTensor{a, a}, 0).AsFloat32(), par.Cat([]*tensor.RawTensor{a, a}, 0).AsFloat32())
}
