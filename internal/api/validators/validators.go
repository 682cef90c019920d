package validators

import "github.com/go-playground/validator/v10"

// New returns a validator for request structs.
func New() *validator.Validate {
	return validator.New()
}
