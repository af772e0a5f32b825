package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// labels maps struct field names to the labels shown in messages.
var labels = map[string]string{
	"CategoryID":      "Category",
	"ConfirmPassword": "Confirm Password",
}

// FieldError is one failed rule on one form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed field of a form, in declaration order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// Message returns the message for field, or "".
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Forms validates form structs (drafts, credentials, profiles) against their
// validate tags.
type Forms struct {
	v *validator.Validate
}

func NewForms() *Forms {
	return &Forms{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns nil or a *ValidationError.
func (f *Forms) Validate(form any) error {
	err := f.v.Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

// fieldMessage converts a single FieldError into a human-readable message.
func fieldMessage(fe validator.FieldError) string {
	label := fe.Field()
	if l, ok := labels[label]; ok {
		label = l
	}
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email"
	case "url":
		return "Must be a valid URL"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "eqfield":
		return "Passwords must match"
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}
