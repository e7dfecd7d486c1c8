package models

import (
	"errors"
	"fmt"

	"github.com/born-ml/deepctr/internal/layers"
)

var (
	// ErrInvalidConfiguration is returned for hyperparameters no model can
	// be built from. It is the same sentinel the layers return.
	ErrInvalidConfiguration = layers.ErrInvalidConfiguration

	// ErrUnimplementedConfiguration is returned when the enabled branches
	// of a model do not form a supported architecture, e.g. DCN with
	// neither cross layers nor a deep tower.
	ErrUnimplementedConfiguration = errors.New("unimplemented configuration")
)

func invalid(model, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", model, fmt.Sprintf(format, args...), ErrInvalidConfiguration)
}

func unimplemented(model, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", model, fmt.Sprintf(format, args...), ErrUnimplementedConfiguration)
}
