package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field identifies one input of the contact form.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldSubject
	FieldMessage

	fieldCount
)

// Fields lists every form field in display order.
var Fields = [fieldCount]Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

var fieldNames = [fieldCount]string{"name", "email", "subject", "message"}

// String returns the JSON name of the field.
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// Label is the human readable name used in error messages.
func (f Field) Label() string {
	return FieldLabels[f.String()]
}

// ParseField maps a JSON field name back to its identifier.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

const (
	NameMinLength    = 2
	MessageMinLength = 10
)

// emailPattern is a local@domain.tld shape check, not RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is the contact payload as typed by the user and sent over the wire.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Value returns the raw value of a field.
func (f Form) Value(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldSubject:
		return f.Subject
	case FieldMessage:
		return f.Message
	}
	return ""
}

// Set returns a copy of the form with one field replaced.
func (f Form) Set(field Field, value string) Form {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldSubject:
		f.Subject = value
	case FieldMessage:
		f.Message = value
	}
	return f
}

// FieldErrors maps a field to its error message. Valid fields are absent.
type FieldErrors map[Field]string

// ValidateField applies the client rule for a single field.
// It returns an empty string when the value is acceptable.
func ValidateField(field Field, value string) string {
	trimmed := strings.TrimSpace(value)

	switch field {
	case FieldName:
		if trimmed == "" {
			return RequiredMessage(field)
		}
		if utf8.RuneCountInString(trimmed) < NameMinLength {
			return TooShortMessage(field, NameMinLength)
		}
	case FieldEmail:
		if trimmed == "" {
			return RequiredMessage(field)
		}
		if !IsEmailShape(trimmed) {
			return InvalidEmailMessage
		}
	case FieldMessage:
		if trimmed == "" {
			return RequiredMessage(field)
		}
		if utf8.RuneCountInString(trimmed) < MessageMinLength {
			return TooShortMessage(field, MessageMinLength)
		}
	}
	return ""
}

// ValidateForm runs every field rule. The form is valid when no field
// produced an error; subject never does.
func ValidateForm(form Form) (bool, FieldErrors) {
	errs := FieldErrors{}
	for _, field := range Fields {
		if msg := ValidateField(field, form.Value(field)); msg != "" {
			errs[field] = msg
		}
	}
	return len(errs) == 0, errs
}

// IsEmailShape reports whether s looks like local@domain.tld.
func IsEmailShape(s string) bool {
	return emailPattern.MatchString(s)
}
