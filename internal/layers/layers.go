// Package layers implements the feature-interaction layers of the CTR
// models: cross networks, bilinear interaction, compressed interaction
// networks, squeeze-and-excitation reweighting, factorization machines, the
// DNN tower and the prediction head.
//
// Every layer operates on a field-embedding batch of shape
// [batch, fields, embedding_dim] or on its flattened form [batch, features].
// Field count and embedding size are fixed at construction; the batch size
// may change between calls. Configuration is validated once by the
// constructor, which returns ErrInvalidConfiguration; shape mismatches at
// Forward time panic inside the tensor framework.
package layers

import (
	"errors"
	"fmt"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// ErrInvalidConfiguration is returned by constructors given hyperparameters
// that cannot produce a valid layer.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Regularizable is implemented by layers that expose the subset of their
// parameters subject to L2 weight decay.
type Regularizable[B tensor.Backend] interface {
	RegularizableParameters() []*nn.Parameter[B]
}

func invalid(layer, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", layer, fmt.Sprintf(format, args...), ErrInvalidConfiguration)
}
