package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/tensor"
)

// Dropout zeroes each element with probability p during training and scales
// the survivors by 1/(1-p) (inverted dropout). In evaluation mode it is the
// identity.
//
// The mask is drawn from the module's own *rand.Rand, so a seeded model
// produces the same masks run after run.
type Dropout[B tensor.Backend] struct {
	p        float64
	rng      *rand.Rand
	training bool
}

// NewDropout creates a Dropout module in training mode. p must be in [0, 1).
func NewDropout[B tensor.Backend](p float64, rng *rand.Rand) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("Dropout: rate must be in [0, 1), got %v", p))
	}
	return &Dropout[B]{p: p, rng: rng, training: true}
}

// SetTraining switches between training and evaluation mode.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Training reports whether the module is in training mode.
func (d *Dropout[B]) Training() bool {
	return d.training
}

// Forward applies the dropout mask in training mode.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return input
	}

	scale := float32(1 / (1 - d.p))
	mask := tensor.Zeros[float32](input.Shape(), input.Backend())
	data := mask.Data()
	for i := range data {
		if d.rng.Float64() >= d.p {
			data[i] = scale
		}
	}
	return input.Mul(mask)
}

// Parameters returns nil; Dropout has no trainable parameters.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}
