package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deepctr/internal/autodiff"
	"github.com/born-ml/deepctr/internal/backend/cpu"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/optim"
	"github.com/born-ml/deepctr/internal/tensor"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newParam(t *testing.T, b adBackend, values ...float32) *nn.Parameter[adBackend] {
	t.Helper()
	x, err := tensor.FromSlice(values, tensor.Shape{len(values)}, b)
	require.NoError(t, err)
	return nn.NewParameter("x", x)
}

func gradOf(t *testing.T, p *nn.Parameter[adBackend], values ...float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	g, err := tensor.NewRaw(tensor.Shape{len(values)}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(g.AsFloat32(), values)
	return map[*tensor.RawTensor]*tensor.RawTensor{p.Tensor().Raw(): g}
}

func TestSGDSimpleUpdate(t *testing.T) {
	b := autodiff.New(cpu.New())
	param := newParam(t, b, 2.0)

	opt := optim.NewSGD([]*nn.Parameter[adBackend]{param}, optim.SGDConfig{LR: 0.1})
	raw := param.Tensor().Raw()
	opt.Step(gradOf(t, param, 1.0))

	assert.InDelta(t, 1.9, param.Tensor().Item(), 1e-6)
	assert.Same(t, raw, param.Tensor().Raw(), "update is in place")
}

func TestSGDWithMomentum(t *testing.T) {
	b := autodiff.New(cpu.New())
	param := newParam(t, b, 1.0)
	opt := optim.NewSGD([]*nn.Parameter[adBackend]{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	opt.Step(gradOf(t, param, 1.0)) // v=1, x=0.9
	assert.InDelta(t, 0.9, param.Tensor().Item(), 1e-6)

	opt.Step(gradOf(t, param, 1.0)) // v=1.9, x=0.71
	assert.InDelta(t, 0.71, param.Tensor().Item(), 1e-6)
}

func TestSGDDefaults(t *testing.T) {
	opt := optim.NewSGD[adBackend](nil, optim.SGDConfig{})
	assert.InDelta(t, 0.01, opt.GetLR(), 1e-9)
	opt.SetLR(0.5)
	assert.InDelta(t, 0.5, opt.GetLR(), 1e-9)
}

func TestSkipsParametersWithoutGradient(t *testing.T) {
	b := autodiff.New(cpu.New())
	used := newParam(t, b, 1.0)
	unused := newParam(t, b, 5.0)

	opts := []optim.Optimizer{
		optim.NewSGD([]*nn.Parameter[adBackend]{used, unused}, optim.SGDConfig{LR: 0.1}),
		optim.NewAdam([]*nn.Parameter[adBackend]{used, unused}, optim.AdamConfig{}),
		optim.NewAdagrad([]*nn.Parameter[adBackend]{used, unused}, optim.AdagradConfig{}),
	}
	for _, opt := range opts {
		opt.Step(gradOf(t, used, 1.0))
		assert.Equal(t, float32(5.0), unused.Tensor().Item())
	}
	assert.Less(t, used.Tensor().Item(), float32(1.0))
}

func TestAdamFirstStep(t *testing.T) {
	b := autodiff.New(cpu.New())
	param := newParam(t, b, 1.0, -1.0)
	opt := optim.NewAdam([]*nn.Parameter[adBackend]{param}, optim.AdamConfig{LR: 0.1})

	// After bias correction the first step is lr * sign(grad).
	opt.Step(gradOf(t, param, 0.5, -2.0))
	data := param.Tensor().Data()
	assert.InDelta(t, 0.9, data[0], 1e-5)
	assert.InDelta(t, -0.9, data[1], 1e-5)
	assert.Equal(t, 1, opt.GetTimestep())
}

func TestAdagradStep(t *testing.T) {
	b := autodiff.New(cpu.New())
	param := newParam(t, b, 1.0)
	opt := optim.NewAdagrad([]*nn.Parameter[adBackend]{param}, optim.AdagradConfig{LR: 0.1})

	opt.Step(gradOf(t, param, 2.0)) // x = 1 - 0.1*2/2
	assert.InDelta(t, 0.9, param.Tensor().Item(), 1e-6)

	opt.Step(gradOf(t, param, 2.0)) // sum = 8
	assert.InDelta(t, 0.9-0.2/math.Sqrt(8), param.Tensor().Item(), 1e-6)
}

func TestAdamMinimizesQuadratic(t *testing.T) {
	b := autodiff.New(cpu.New())
	param := newParam(t, b, 3.0, -2.0)
	opt := optim.NewAdam([]*nn.Parameter[adBackend]{param}, optim.AdamConfig{LR: 0.1})

	tape := b.Tape()
	for range 200 {
		tape.Clear()
		tape.StartRecording()
		x := param.Tensor()
		loss := x.Mul(x).Sum()
		grads := autodiff.Backward(loss, b)
		tape.StopRecording()

		opt.Step(grads)
		opt.ZeroGrad()
	}

	for _, v := range param.Tensor().Data() {
		assert.InDelta(t, 0, v, 0.05)
	}
}
