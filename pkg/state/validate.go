package state

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/cardforge/pkg/core"
)

var validate = validator.New()

// validateStruct checks the validate tags of an input and wraps any failure
// in core.ErrValidationRejected.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: %s failed %q", core.ErrValidationRejected, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", core.ErrValidationRejected, err)
}
