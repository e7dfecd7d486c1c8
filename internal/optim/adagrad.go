package optim

import (
	"math"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// Adagrad adapts the learning rate of every coordinate by the history of
// its squared gradients:
//
//	sum = sum + grad²
//	param = param - lr * grad / (sqrt(sum) + eps)
//
// Rarely seen embedding rows keep large steps, frequent ones shrink.
type Adagrad[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	lr     float32
	eps    float32
	sums   map[*nn.Parameter[B]][]float32
}

// AdagradConfig holds configuration for Adagrad.
type AdagradConfig struct {
	LR  float32 // Learning rate (default: 0.01)
	Eps float32 // Term for numerical stability (default: 1e-10)
}

// NewAdagrad creates a new Adagrad optimizer.
func NewAdagrad[B tensor.Backend](params []*nn.Parameter[B], config AdagradConfig) *Adagrad[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Eps == 0 {
		config.Eps = 1e-10
	}
	return &Adagrad[B]{
		params: params,
		lr:     config.LR,
		eps:    config.Eps,
		sums:   make(map[*nn.Parameter[B]][]float32),
	}
}

// Step performs a single optimization step.
func (a *Adagrad[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range a.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue
		}

		data := param.Tensor().Data()
		sum, ok := a.sums[param]
		if !ok {
			sum = make([]float32, len(data))
			a.sums[param] = sum
		}
		for i, g := range grad {
			sum[i] += g * g
			data[i] -= a.lr * g / (float32(math.Sqrt(float64(sum[i]))) + a.eps)
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adagrad[B]) ZeroGrad() {
	zeroGrad(a.params)
}

// GetLR returns the current learning rate.
func (a *Adagrad[B]) GetLR() float32 {
	return a.lr
}
