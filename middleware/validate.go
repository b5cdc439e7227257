package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the struct's validate tags and returns a field error
// map for the validation response envelope, or nil when the payload is fine.
func ValidateStruct(payload interface{}) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		errs["body"] = "Invalid request body!"
		return errs
	}

	for _, fe := range fieldErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errs[field] = "This field is required!"
		case "email":
			errs[field] = "Invalid email!"
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s!", fe.Param())
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s!", fe.Param())
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s!", fe.Param())
		case "oneof":
			errs[field] = fmt.Sprintf("Must be one of: %s!", fe.Param())
		default:
			errs[field] = "Invalid value!"
		}
	}

	return errs
}
