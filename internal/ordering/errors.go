package ordering

import (
	"errors"

	"github.com/CameronXie/digital-diner/internal/validation"
)

// InvalidInputError reports a request the ordering service refuses before touching any store.
type InvalidInputError struct {
	Message string
	Fields  []validation.FieldError
}

func (e *InvalidInputError) Error() string {
	return e.Message
}

func invalidInput(msg string) error {
	return &InvalidInputError{Message: msg}
}

// fromValidation turns a validation failure into an InvalidInputError and passes other errors through.
func fromValidation(err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return &InvalidInputError{Message: verr.Error(), Fields: verr.Fields}
	}
	return err
}
