package validation

import (
	"errors"
	"fmt"

	"portfolio-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps JSON field names to user-friendly labels
var FieldLabels = map[string]string{
	"name":    "Name",
	"email":   "Email",
	"subject": "Subject",
	"message": "Message",
}

const InvalidEmailMessage = "Please enter a valid email address"

func RequiredMessage(field Field) string {
	return fmt.Sprintf("%s is required", field.Label())
}

func TooShortMessage(field Field, min int) string {
	return fmt.Sprintf("%s must be at least %d characters", field.Label(), min)
}

// FormatValidationErrors converts validator.ValidationErrors to field-level messages
func FormatValidationErrors(err error) []apperror.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []apperror.FieldError{{Field: "body", Message: err.Error()}}
	}

	fields := make([]apperror.FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, apperror.FieldError{
			Field:   e.Field(),
			Message: formatSingleError(e),
		})
	}
	return fields
}

// formatSingleError renders the same wording the client rules use
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, e.Param())
	case "email", "email_shape":
		return InvalidEmailMessage
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(name string) string {
	if label, ok := FieldLabels[name]; ok {
		return label
	}
	return name
}
