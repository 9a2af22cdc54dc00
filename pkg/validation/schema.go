package validation

import (
	"reflect"
	"strings"

	"portfolio-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// Schema validates untrusted payloads on the server. It reports fields
// by their JSON names so errors line up with the client rules.
type Schema struct {
	validate *validator.Validate
}

func NewSchema() *Schema {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	RegisterValidators(v)
	return &Schema{validate: v}
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", NotBlank)
	_ = v.RegisterValidation("email_shape", EmailShape)
}

// Validate returns nil when payload satisfies its tags, otherwise the field errors.
func (s *Schema) Validate(payload any) []apperror.FieldError {
	if err := s.validate.Struct(payload); err != nil {
		return FormatValidationErrors(err)
	}
	return nil
}

// NotBlank rejects empty and whitespace-only strings
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// EmailShape applies the same pattern as the client rule
func EmailShape(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // use notblank if required
	}
	return IsEmailShape(val)
}
