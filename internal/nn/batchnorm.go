package nn

import (
	"fmt"

	"github.com/born-ml/deepctr/internal/tensor"
)

// BatchNorm1d normalizes a [batch, features] input per feature.
//
// Formula: Y = gamma * (X - mean) / sqrt(var + eps) + beta
//
// In training mode mean and (biased) variance come from the batch and the
// running statistics are updated with momentum:
//
//	running = (1 - momentum) * running + momentum * batch_stat
//
// where the running variance uses the unbiased batch variance. In evaluation
// mode the running statistics are used instead.
type BatchNorm1d[B tensor.Backend] struct {
	Gamma    *Parameter[B] // learnable scale [features]
	Beta     *Parameter[B] // learnable shift [features]
	Epsilon  float32
	Momentum float32

	numFeatures int
	runningMean []float32
	runningVar  []float32
	training    bool
	backend     B
}

// NewBatchNorm1d creates a BatchNorm1d layer in training mode with
// eps = 1e-5 and momentum = 0.1.
func NewBatchNorm1d[B tensor.Backend](numFeatures int, backend B) *BatchNorm1d[B] {
	runningVar := make([]float32, numFeatures)
	for i := range runningVar {
		runningVar[i] = 1
	}
	return &BatchNorm1d[B]{
		Gamma:       NewParameter("gamma", Ones(tensor.Shape{numFeatures}, backend)),
		Beta:        NewParameter("beta", Zeros(tensor.Shape{numFeatures}, backend)),
		Epsilon:     1e-5,
		Momentum:    0.1,
		numFeatures: numFeatures,
		runningMean: make([]float32, numFeatures),
		runningVar:  runningVar,
		training:    true,
		backend:     backend,
	}
}

// SetTraining switches between batch and running statistics.
func (bn *BatchNorm1d[B]) SetTraining(training bool) {
	bn.training = training
}

// RunningMean returns a copy of the running mean.
func (bn *BatchNorm1d[B]) RunningMean() []float32 {
	return append([]float32(nil), bn.runningMean...)
}

// RunningVar returns a copy of the running variance.
func (bn *BatchNorm1d[B]) RunningVar() []float32 {
	return append([]float32(nil), bn.runningVar...)
}

// Forward normalizes x of shape [batch, features].
func (bn *BatchNorm1d[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 2 || shape[1] != bn.numFeatures {
		panic(fmt.Sprintf("BatchNorm1d.Forward: expected [batch, %d], got %v", bn.numFeatures, shape))
	}

	var xCentered, variance *tensor.Tensor[float32, B]
	if bn.training {
		mean := x.MeanDim(0, true) // [1, F]
		xCentered = x.Sub(mean)
		variance = xCentered.Mul(xCentered).MeanDim(0, true)
		bn.updateRunning(mean.Data(), variance.Data(), shape[0])
	} else {
		mean, err := tensor.FromSlice(bn.runningMean, tensor.Shape{1, bn.numFeatures}, bn.backend)
		if err != nil {
			panic(err)
		}
		variance, err = tensor.FromSlice(bn.runningVar, tensor.Shape{1, bn.numFeatures}, bn.backend)
		if err != nil {
			panic(err)
		}
		xCentered = x.Sub(mean)
	}

	xNorm := xCentered.Div(variance.AddScalar(bn.Epsilon).Sqrt())

	gamma := bn.Gamma.Tensor().Unsqueeze(0)
	beta := bn.Beta.Tensor().Unsqueeze(0)
	return xNorm.Mul(gamma).Add(beta)
}

func (bn *BatchNorm1d[B]) updateRunning(mean, variance []float32, n int) {
	unbias := float32(1)
	if n > 1 {
		unbias = float32(n) / float32(n-1)
	}
	m := bn.Momentum
	for i := range bn.runningMean {
		bn.runningMean[i] = (1-m)*bn.runningMean[i] + m*mean[i]
		bn.runningVar[i] = (1-m)*bn.runningVar[i] + m*variance[i]*unbias
	}
}

// Parameters returns [gamma, beta].
func (bn *BatchNorm1d[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.Gamma, bn.Beta}
}
