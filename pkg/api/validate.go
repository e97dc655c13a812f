package api

import (
	"github.com/go-playground/validator/v10"
)

// structValidator adapts go-playground/validator to Echo's Validator
// interface, so c.Bind followed by c.Validate enforces the `validate:"..."`
// tags on every request DTO in this package.
type structValidator struct {
	v *validator.Validate
}

func newStructValidator() *structValidator {
	return &structValidator{v: validator.New()}
}

func (sv *structValidator) Validate(i any) error {
	if err := sv.v.Struct(i); err != nil {
		return badRequest(err.Error())
	}
	return nil
}
