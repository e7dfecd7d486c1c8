package layers

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// DNNConfig holds the tower options shared by every model.
type DNNConfig struct {
	Activation  string  // "relu" (default), "sigmoid", "tanh", "linear"
	DropoutRate float64 // in [0, 1)
	UseBN       bool    // batch-norm between linear and activation
	InitStd     float64 // std of the normal weight init; zero selects 1e-4
}

// DNN is a feed-forward tower. Each hidden layer computes
//
//	dropout(act(bn(x @ W.T + b)))
//
// with the batch-norm step only when UseBN is set.
type DNN[B tensor.Backend] struct {
	inputDim    int
	hiddenUnits []int
	linears     []*nn.Linear[B]
	norms       []*nn.BatchNorm1d[B]
	activations []nn.Module[B]
	dropout     *nn.Dropout[B]
}

// NewDNN creates a tower from inputDim through hiddenUnits.
func NewDNN[B tensor.Backend](inputDim int, hiddenUnits []int, cfg DNNConfig, rng *rand.Rand, backend B) (*DNN[B], error) {
	if inputDim <= 0 {
		return nil, invalid("dnn", "input dimension must be positive, got %d", inputDim)
	}
	if len(hiddenUnits) == 0 {
		return nil, invalid("dnn", "hidden units must not be empty")
	}
	if cfg.DropoutRate < 0 || cfg.DropoutRate >= 1 {
		return nil, invalid("dnn", "dropout rate must be in [0, 1), got %v", cfg.DropoutRate)
	}
	if cfg.Activation == "" {
		cfg.Activation = "relu"
	}
	if cfg.InitStd == 0 {
		cfg.InitStd = 1e-4
	}

	d := &DNN[B]{
		inputDim:    inputDim,
		hiddenUnits: append([]int(nil), hiddenUnits...),
		dropout:     nn.NewDropout[B](cfg.DropoutRate, rng),
	}

	in := inputDim
	for i, units := range hiddenUnits {
		if units <= 0 {
			return nil, invalid("dnn", "hidden layer %d must have positive units, got %d", i, units)
		}
		weight := nn.Normal(tensor.Shape{units, in}, cfg.InitStd, rng, backend)
		d.linears = append(d.linears, nn.NewLinearWithWeight(weight, true))
		if cfg.UseBN {
			d.norms = append(d.norms, nn.NewBatchNorm1d(units, backend))
		}
		act, err := nn.NewActivation[B](cfg.Activation)
		if err != nil {
			return nil, invalid("dnn", "%v", err)
		}
		d.activations = append(d.activations, act)
		in = units
	}
	return d, nil
}

// Forward maps [batch, inputDim] to [batch, OutputDim()].
func (d *DNN[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if shape := x.Shape(); len(shape) != 2 || shape[1] != d.inputDim {
		panic(fmt.Sprintf("DNN.Forward: expected [batch, %d], got %v", d.inputDim, shape))
	}

	h := x
	for i, linear := range d.linears {
		h = linear.Forward(h)
		if d.norms != nil {
			h = d.norms[i].Forward(h)
		}
		h = d.activations[i].Forward(h)
		h = d.dropout.Forward(h)
	}
	return h
}

// SetTraining switches dropout and batch-norm between training and
// inference behavior.
func (d *DNN[B]) SetTraining(training bool) {
	d.dropout.SetTraining(training)
	for _, bn := range d.norms {
		bn.SetTraining(training)
	}
}

// InputDim returns the expected input width.
func (d *DNN[B]) InputDim() int {
	return d.inputDim
}

// OutputDim returns the width of the last hidden layer.
func (d *DNN[B]) OutputDim() int {
	return d.hiddenUnits[len(d.hiddenUnits)-1]
}

// Parameters returns every weight, bias and batch-norm affine parameter.
func (d *DNN[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for i, linear := range d.linears {
		params = append(params, linear.Parameters()...)
		if d.norms != nil {
			params = append(params, d.norms[i].Parameters()...)
		}
	}
	return params
}

// RegularizableParameters returns the linear weights; biases and batch-norm
// parameters are not decayed.
func (d *DNN[B]) RegularizableParameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, len(d.linears))
	for _, linear := range d.linears {
		params = append(params, linear.Weight())
	}
	return params
}
