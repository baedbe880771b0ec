package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// phoneRegex matches local phone numbers: 10 or 11 digits, nothing else.
var phoneRegex = regexp.MustCompile(`^[0-9]{10,11}$`)

// IsValidPhone reports whether s is an acceptable customer phone number.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// RegisterCustomValidators wires domain validation tags into gin's binding engine.
// Must run before the first request is bound.
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		})
	}
}
