package autodiff_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deepctr/internal/autodiff"
	"github.com/born-ml/deepctr/internal/backend/cpu"
	"github.com/born-ml/deepctr/internal/tensor"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

type tensor64 = tensor.Tensor[float64, adBackend]

func newBackend() adBackend {
	return autodiff.New(cpu.New())
}

func fromSlice(t *testing.T, b adBackend, data []float64, shape ...int) *tensor64 {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape(shape), b)
	require.NoError(t, err)
	return x
}

// checkGradient compares the autodiff gradient of f at every input with a
// central finite difference.
func checkGradient(t *testing.T, b adBackend, f func(xs []*tensor64) *tensor64, xs ...*tensor64) {
	t.Helper()

	tape := b.Tape()
	tape.Clear()
	tape.StartRecording()
	out := f(xs)
	grads := autodiff.Backward(out, b)
	tape.StopRecording()
	tape.Clear()

	const eps = 1e-6
	for k, x := range xs {
		grad, ok := grads[x.Raw()]
		require.Truef(t, ok, "no gradient for input %d", k)
		analytic := grad.AsFloat64()
		require.Len(t, analytic, x.NumElements())

		data := x.Data()
		for i := range data {
			orig := data[i]
			data[i] = orig + eps
			plus := f(xs).Sum().Item()
			data[i] = orig - eps
			minus := f(xs).Sum().Item()
			data[i] = orig

			numeric := (plus - minus) / (2 * eps)
			assert.InDeltaf(t, numeric, analytic[i], 1e-4, "input %d element %d", k, i)
		}
	}
}

func TestTapeRecording(t *testing.T) {
	b := newBackend()
	tape := b.Tape()

	x := fromSlice(t, b, []float64{1, 2}, 2)
	_ = x.Add(x)
	assert.Equal(t, 0, tape.NumOps(), "nothing recorded before StartRecording")

	tape.StartRecording()
	_ = x.Mul(x)
	_ = x.Sigmoid()
	assert.Equal(t, 2, tape.NumOps())
	assert.True(t, tape.IsRecording())

	tape.Clear()
	assert.Equal(t, 0, tape.NumOps())
	assert.True(t, tape.IsRecording(), "Clear preserves recording state")

	tape.StopRecording()
	_ = x.Mul(x)
	assert.Equal(t, 0, tape.NumOps())
}

func TestBackwardSquare(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromSlice(t, b, []float64{2, -3}, 2)
	y := x.Mul(x).Sum()

	grads := autodiff.Backward(y, b)
	assert.Equal(t, []float64{4, -6}, grads[x.Raw()].AsFloat64())
}

func TestBackwardSeedsRequestedOutput(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromSlice(t, b, []float64{1, 2, 3}, 3)
	loss := x.MulScalar(3).Sum()
	// An unrelated op recorded after the loss must not receive the seed.
	_ = x.MulScalar(100)

	grads := autodiff.Backward(loss, b)
	assert.Equal(t, []float64{3, 3, 3}, grads[x.Raw()].AsFloat64())
}

func TestBackwardPanicsWithoutOps(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float64{1}, 1)
	assert.Panics(t, func() { autodiff.Backward(x, b) })
}

func TestGradientAccumulatesOverReuse(t *testing.T) {
	b := newBackend()
	b.Tape().StartRecording()

	x := fromSlice(t, b, []float64{1.5}, 1)
	y := x.Add(x).Add(x) // 3x

	grads := autodiff.Backward(y, b)
	assert.Equal(t, []float64{3}, grads[x.Raw()].AsFloat64())
}

func TestGradientArithmetic(t *testing.T) {
	b := newBackend()
	a := fromSlice(t, b, []float64{0.5, -1.2, 2.0, 0.3, 1.1, -0.7}, 2, 3)
	c := fromSlice(t, b, []float64{1.5, 0.8, -2.5, 1.3, 0.9, 2.2}, 2, 3)

	checkGradient(t, b, func(xs []*tensor64) *tensor64 {
		return xs[0].Mul(xs[1]).Sub(xs[0].Div(xs[1])).AddScalar(2).MulScalar(0.5)
	}, a, c)
}

func TestGradientBroadcast(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, 2, 3)
	row := fromSlice(t, b, []float64{1, -2, 3}, 3)
	col := fromSlice(t, b, []float64{0.7, -0.4}, 2, 1)

	checkGradient(t, b, func(xs []*tensor64) *tensor64 {
		return xs[0].Add(xs[1]).Mul(xs[2])
	}, x, row, col)
}

func TestGradientMatMul(t *testing.T) {
	b := newBackend()
	rng := rand.New(rand.NewSource(1))
	a := tensor.Randn[float64](tensor.Shape{3, 4}, rng, b)
	w := tensor.Randn[float64](tensor.Shape{4, 2}, rng, b)

	checkGradient(t, b, func(xs []*tensor64) *tensor64 {
		return xs[0].MatMul(xs[1]).Tanh()
	}, a, w)
}

func TestGradientActivations(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float64{0.3, 1.7, 2.2, 0.9}, 4)

	checkGradient(t, b, func(xs []*tensor64) *tensor64 {
		return xs[0].Sigmoid().Add(xs[0].Log()).Add(xs[0].Sqrt()).Add(xs[0].AddScalar(-1).ReLU())
	}, x)
}

func TestGradientShapeOps(t *testing.T) {
	b := newBackend()
	rng := rand.New(rand.NewSource(2))
	x := tensor.Randn[float64](tensor.Shape{2, 3, 4}, rng, b)
	w := tensor.Randn[float64](tensor.Shape{3, 2}, rng, b)

	checkGradient(t, b, func(xs []*tensor64) *tensor64 {
		// [2,3,4] -> [2,4,3] -> [8,3] @ [3,2] -> [8,2] -> [2,4,2]
		y := xs[0].Transpose(0, 2, 1).Reshape(8, 3).MatMul(xs[1]).Reshape(2, 4, 2)
		return y.Unsqueeze(1).Squeeze(1).Sigmoid()
	}, x, w)
}

func TestGradientReductions(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float64{0.1, 0.9, -0.4, 0.5, 1.3, 0.2}, 2, 3)

	checkGradient(t, b, func(xs []*tensor64) *tensor64 {
		s := xs[0].SumDim(1, false).Tanh()
		m := xs[0].MeanDim(0, true).Sigmoid()
		mx := xs[0].MaxDim(1, false).MulScalar(2)
		return s.Sum().Add(m.Sum()).Add(mx.Sum())
	}, x)
}

func TestGradientCat(t *testing.T) {
	b := newBackend()
	a := fromSlice(t, b, []float64{0.1, 0.2, 0.3, 0.4}, 2, 2)
	c := fromSlice(t, b, []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1.0}, 2, 3)

	checkGradient(t, b, func(xs []*tensor64) *tensor64 {
		joined := tensor.Cat([]*tensor64{xs[0], xs[1]}, 1) // [2,5]
		weights := fromSlice(t, b, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 2, 5)
		return joined.Mul(weights).Sigmoid()
	}, a, c)
}

func TestGradientChunkUnusedOutput(t *testing.T) {
	b := newBackend()
	x := fromSlice(t, b, []float64{0.5, -0.5, 1, 2, 3, 4}, 2, 3)

	b.Tape().StartRecording()
	parts := x.Reshape(6).Chunk(3, 0) // three [2] chunks
	loss := parts[1].MulScalar(2).Sum()
	grads := autodiff.Backward(loss, b)

	assert.Equal(t, []float64{0, 0, 2, 2, 0, 0}, grads[x.Raw()].AsFloat64())
}

func TestGradientEmbedding(t *testing.T) {
	b := newBackend()
	weight := fromSlice(t, b, []float64{1, 2, 3, 4, 5, 6}, 3, 2)
	idx, err := tensor.FromSlice([]int32{0, 2, 0}, tensor.Shape{3}, b)
	require.NoError(t, err)

	b.Tape().StartRecording()
	out := weight.Embedding(idx)
	require.Equal(t, tensor.Shape{3, 2}, out.Shape())
	grads := autodiff.Backward(out.Sum(), b)

	assert.Equal(t, []float64{2, 2, 0, 0, 1, 1}, grads[weight.Raw()].AsFloat64())
}
