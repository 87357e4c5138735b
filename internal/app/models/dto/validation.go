package dto

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts a binding error into an ErrorDetail. Field
// errors from the validator are listed under details.
func HandleValidationError(err error) *ErrorDetail {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, FormatFieldError(fe))
		}
		detail := NewErrorDetail(ErrorCodeValidationFailed, strings.Join(messages, "; "))
		if len(fieldErrs) == 1 {
			detail = detail.WithField(jsonFieldName(fieldErrs[0]))
		}
		return detail.WithDetails(messages)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewErrorDetail(ErrorCodeInvalidRequest, "Invalid request format").
			WithField(typeErr.Field).
			WithDetails(typeErr.Field + " has the wrong type")
	}

	return NewErrorDetail(ErrorCodeInvalidRequest, "Invalid request format").WithDetails(err.Error())
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param() + " characters"
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "eventcategory":
		return field + " must be one of: Tech, Cultural, Sports, Academic, Social, Others"
	case "uuid":
		return field + " must be a valid identifier"
	default:
		return field + " validation failed: " + e.Tag()
	}
}

func jsonFieldName(e validator.FieldError) string {
	name := e.Field()
	if name == "" {
		return e.StructField()
	}
	return name
}
