package nn_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deepctr/internal/autodiff"
	"github.com/born-ml/deepctr/internal/backend/cpu"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() adBackend {
	return autodiff.New(cpu.New())
}

func fromSlice(t *testing.T, b adBackend, data []float32, shape ...int) *tensor.Tensor[float32, adBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape(shape), b)
	require.NoError(t, err)
	return x
}

func TestParameter(t *testing.T) {
	backend := newBackend()

	data := fromSlice(t, backend, []float32{1, 2, 3}, 3)
	param := nn.NewParameter("test_param", data)

	assert.Equal(t, "test_param", param.Name())
	assert.Same(t, data, param.Tensor())
	assert.Nil(t, param.Grad())

	grad := fromSlice(t, backend, []float32{0.1, 0.2, 0.3}, 3)
	param.SetGrad(grad)
	assert.Same(t, grad, param.Grad())

	param.ZeroGrad()
	assert.Nil(t, param.Grad())
}

func TestLinearForward(t *testing.T) {
	backend := newBackend()
	w := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, 2, 3)
	layer := nn.NewLinearWithWeight(w, true)
	copy(layer.Bias().Tensor().Data(), []float32{0.5, -0.5})

	x := fromSlice(t, backend, []float32{1, 0, -1, 2, 1, 0}, 2, 3)
	y := layer.Forward(x)

	require.Equal(t, tensor.Shape{2, 2}, y.Shape())
	// row0: [1-3, 4-6] + b = [-1.5, -2.5]; row1: [2+2, 8+5] + b = [4.5, 12.5]
	assert.Equal(t, []float32{-1.5, -2.5, 4.5, 12.5}, y.Data())
	assert.Len(t, layer.Parameters(), 2)
	assert.Equal(t, 3, layer.InFeatures())
	assert.Equal(t, 2, layer.OutFeatures())
}

func TestLinearWithoutBias(t *testing.T) {
	backend := newBackend()
	rng := rand.New(rand.NewSource(7))
	layer := nn.NewLinear(4, 3, false, rng, backend)

	assert.Nil(t, layer.Bias())
	assert.Len(t, layer.Parameters(), 1)
	assert.Equal(t, tensor.Shape{3, 4}, layer.Weight().Tensor().Shape())

	bound := float32(math.Sqrt(6.0 / 7.0))
	for _, v := range layer.Weight().Tensor().Data() {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
}

func TestLinearPanicsOnFeatureMismatch(t *testing.T) {
	backend := newBackend()
	layer := nn.NewLinear(4, 3, true, rand.New(rand.NewSource(1)), backend)
	x := tensor.Zeros[float32](tensor.Shape{2, 5}, backend)
	assert.Panics(t, func() { layer.Forward(x) })
}

func TestInitDeterministic(t *testing.T) {
	backend := newBackend()
	a := nn.Normal(tensor.Shape{4, 4}, 0.01, rand.New(rand.NewSource(42)), backend)
	b := nn.Normal(tensor.Shape{4, 4}, 0.01, rand.New(rand.NewSource(42)), backend)
	assert.Equal(t, a.Data(), b.Data())

	c := nn.XavierNormal(3, 1, tensor.Shape{3, 1}, rand.New(rand.NewSource(42)), backend)
	d := nn.XavierNormal(3, 1, tensor.Shape{3, 1}, rand.New(rand.NewSource(42)), backend)
	assert.Equal(t, c.Data(), d.Data())
}

func TestActivations(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{-1, 0, 2}, 3)

	relu := nn.NewReLU[adBackend]().Forward(x).Data()
	assert.Equal(t, []float32{0, 0, 2}, relu)

	sig := nn.NewSigmoid[adBackend]().Forward(x).Data()
	assert.InDelta(t, 0.2689414, sig[0], 1e-6)
	assert.InDelta(t, 0.5, sig[1], 1e-6)

	th := nn.NewTanh[adBackend]().Forward(x).Data()
	assert.InDelta(t, math.Tanh(2), th[2], 1e-6)

	id := nn.NewIdentity[adBackend]().Forward(x)
	assert.Same(t, x, id)
}

func TestNewActivation(t *testing.T) {
	for _, name := range []string{"relu", "ReLU", "sigmoid", "tanh", "linear", "identity", ""} {
		act, err := nn.NewActivation[adBackend](name)
		require.NoError(t, err, name)
		assert.Nil(t, act.Parameters())
	}

	_, err := nn.NewActivation[adBackend]("dice")
	require.Error(t, err)
	assert.True(t, errors.Is(err, nn.ErrUnknownActivation))
}

func TestSequential(t *testing.T) {
	backend := newBackend()
	rng := rand.New(rand.NewSource(3))
	seq := nn.NewSequential[adBackend](
		nn.NewLinear(3, 4, true, rng, backend),
		nn.NewReLU[adBackend](),
	)
	seq.Add(nn.NewLinear(4, 1, true, rng, backend))

	assert.Equal(t, 3, seq.Len())
	assert.Len(t, seq.Parameters(), 4)
	assert.Equal(t, 12+4+4+1, nn.CountParameters(seq.Parameters()))

	y := seq.Forward(tensor.Ones[float32](tensor.Shape{5, 3}, backend))
	assert.Equal(t, tensor.Shape{5, 1}, y.Shape())
	assert.Panics(t, func() { seq.Module(3) })
}

func TestDropout(t *testing.T) {
	backend := newBackend()
	x := tensor.Ones[float32](tensor.Shape{1000}, backend)

	drop := nn.NewDropout[adBackend](0.5, rand.New(rand.NewSource(1)))
	y := drop.Forward(x).Data()

	zeros := 0
	for _, v := range y {
		if v == 0 {
			zeros++
		} else {
			assert.Equal(t, float32(2), v)
		}
	}
	assert.InDelta(t, 500, zeros, 80)

	drop.SetTraining(false)
	assert.False(t, drop.Training())
	assert.Same(t, x, drop.Forward(x))

	assert.Panics(t, func() { nn.NewDropout[adBackend](1, nil) })
}

func TestDropoutSeeded(t *testing.T) {
	backend := newBackend()
	x := tensor.Ones[float32](tensor.Shape{64}, backend)

	a := nn.NewDropout[adBackend](0.3, rand.New(rand.NewSource(9))).Forward(x).Data()
	b := nn.NewDropout[adBackend](0.3, rand.New(rand.NewSource(9))).Forward(x).Data()
	assert.Equal(t, a, b)
}

func TestBatchNorm1d(t *testing.T) {
	backend := newBackend()
	bn := nn.NewBatchNorm1d(2, backend)

	x := fromSlice(t, backend, []float32{1, 10, 3, 20}, 2, 2)
	y := bn.Forward(x).Data()

	// Per-feature batch mean/var: f0 mean 2 var 1, f1 mean 15 var 25.
	assert.InDelta(t, -1, y[0], 1e-4)
	assert.InDelta(t, -1, y[1], 1e-4)
	assert.InDelta(t, 1, y[2], 1e-4)
	assert.InDelta(t, 1, y[3], 1e-4)

	// running = 0.9*init + 0.1*batch (unbiased var: 2, 50)
	assert.InDeltaSlice(t, []float32{0.2, 1.5}, bn.RunningMean(), 1e-6)
	assert.InDeltaSlice(t, []float32{0.9 + 0.2, 0.9 + 5}, bn.RunningVar(), 1e-5)

	bn.SetTraining(false)
	z := bn.Forward(x).Data()
	assert.InDelta(t, (1-0.2)/math.Sqrt(1.1+1e-5), z[0], 1e-4)
	assert.Len(t, bn.Parameters(), 2)
}

func TestSetTrainingPropagates(t *testing.T) {
	backend := newBackend()
	drop := nn.NewDropout[adBackend](0.5, rand.New(rand.NewSource(1)))
	seq := nn.NewSequential[adBackend](drop, nn.NewReLU[adBackend]())

	nn.SetTraining[adBackend](false, seq)
	assert.False(t, drop.Training())

	x := tensor.Ones[float32](tensor.Shape{4}, backend)
	assert.Equal(t, []float32{1, 1, 1, 1}, seq.Forward(x).Data())
}

func TestEmbedding(t *testing.T) {
	backend := newBackend()
	weight := fromSlice(t, backend, []float32{0, 0, 1, 1, 2, 2}, 3, 2)
	embed := nn.NewEmbeddingWithWeight(weight)

	ids, err := tensor.FromSlice([]int32{2, 0}, tensor.Shape{2, 1}, backend)
	require.NoError(t, err)

	out := embed.Forward(ids)
	assert.Equal(t, tensor.Shape{2, 1, 2}, out.Shape())
	assert.Equal(t, []float32{2, 2, 0, 0}, out.Data())

	rnd := nn.NewEmbedding(10, 4, 1e-4, rand.New(rand.NewSource(1)), backend)
	assert.Equal(t, 10, rnd.NumEmbed)
	assert.Equal(t, 4, rnd.EmbedDim)
	for _, v := range rnd.Weight.Tensor().Data() {
		assert.Less(t, math.Abs(float64(v)), 1e-2)
	}
}

func TestBCELoss(t *testing.T) {
	backend := newBackend()
	p := fromSlice(t, backend, []float32{0.9, 0.2}, 2, 1)
	y := fromSlice(t, backend, []float32{1, 0}, 2, 1)

	loss := nn.NewBCELoss[adBackend]().Forward(p, y)
	want := -(math.Log(0.9) + math.Log(0.8)) / 2
	assert.InDelta(t, want, loss.Item(), 1e-5)
}

func TestBCELossGradient(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	p := fromSlice(t, backend, []float32{0.25, 0.5}, 2)
	y := fromSlice(t, backend, []float32{1, 0}, 2)
	loss := nn.NewBCELoss[adBackend]().Forward(p, y)

	grads := autodiff.Backward(loss, backend)
	g := grads[p.Raw()].AsFloat32()
	// d/dp of -mean(...): -1/(2p) for y=1, 1/(2(1-p)) for y=0
	assert.InDelta(t, -2, g[0], 1e-4)
	assert.InDelta(t, 1, g[1], 1e-4)
}

func TestMSELoss(t *testing.T) {
	backend := newBackend()
	p := fromSlice(t, backend, []float32{1, 2, 3}, 3)
	y := fromSlice(t, backend, []float32{1, 0, 0}, 3)

	loss := nn.NewMSELoss[adBackend]().Forward(p, y)
	assert.InDelta(t, 13.0/3.0, loss.Item(), 1e-5)
	assert.Panics(t, func() { nn.NewMSELoss[adBackend]().Forward(p, y.Reshape(3, 1)) })
}

func TestCollectGrads(t *testing.T) {
	backend := newBackend()
	backend.Tape().StartRecording()

	layer := nn.NewLinearWithWeight(fromSlice(t, backend, []float32{1, 2}, 1, 2), true)
	unused := nn.NewParameter("unused", tensor.Zeros[float32](tensor.Shape{1}, backend))

	x := fromSlice(t, backend, []float32{3, 4}, 1, 2)
	out := layer.Forward(x).Sum()
	grads := autodiff.Backward(out, backend)

	params := append(layer.Parameters(), unused)
	nn.CollectGrads(params, grads)

	assert.Equal(t, []float32{3, 4}, layer.Weight().Grad().Data())
	assert.Equal(t, []float32{1}, layer.Bias().Grad().Data())
	assert.Nil(t, unused.Grad())
}
