package services

import (
	"errors"
	"fmt"
	"strings"

	"airline-reservation/internal/status"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("legacyemail", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// IsValidEmail only checks shape: a single '@', some '.' and a minimum
// length of five.
func IsValidEmail(email string) bool {
	return strings.Count(email, "@") == 1 &&
		strings.Contains(email, ".") &&
		len(email) >= 5
}

// validateStruct runs the struct tags of s. Email failures map to
// ErrInvalidEmail, everything else to kind.
func validateStruct(s any, kind error) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", kind, err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "legacyemail" {
			return fmt.Errorf("%w: %q", status.ErrInvalidEmail, fe.Value())
		}
	}
	fe := verrs[0]
	return fmt.Errorf("%w: %s fails %q", kind, fe.Field(), fe.Tag())
}
