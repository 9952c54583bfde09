// Package validate holds the synchronous checks run on form submit, before
// anything is sent to the backend.
package validate

import (
	"errors"
	"fmt"
)

var ErrInvalid = errors.New("invalid input")

// Errors maps a form field to its message.
type Errors map[string]string

// fieldOrder is the order fields appear on the forms; the first failing
// field in this order is the one reported by Err.
var fieldOrder = []string{
	"name",
	"email",
	"password",
	"role",
	"price",
	"quantity",
	"location",
}

// FieldError is the error form of a failed validation. It matches
// ErrInvalid and names the first failing field.
type FieldError struct {
	Field   string
	Message string
	Fields  Errors
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalid, e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }

// Err returns nil for an empty set, otherwise a *FieldError.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	for _, field := range fieldOrder {
		if msg, ok := e[field]; ok {
			return &FieldError{Field: field, Message: msg, Fields: copyErrors(e)}
		}
	}
	for field, msg := range e {
		return &FieldError{Field: field, Message: msg, Fields: copyErrors(e)}
	}
	return nil
}

// FieldsOf returns the field messages carried by err, if it is a validation
// failure.
func FieldsOf(err error) Errors {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Fields
	}
	return nil
}

func (e Errors) add(field, msg string) {
	e[field] = msg
}

// FormState is the error set shown next to a form. Server and local errors
// share it; a submit always replaces whatever was there.
type FormState struct {
	errs Errors
}

// Submit installs the local validation result and reports whether the form
// may be sent.
func (f *FormState) Submit(local Errors) bool {
	f.errs = copyErrors(local)
	return len(f.errs) == 0
}

// SetServer shows the field errors returned by the backend.
func (f *FormState) SetServer(fields map[string]string) {
	f.errs = copyErrors(fields)
}

// Edit clears the error of a field the user is changing.
func (f *FormState) Edit(field string) {
	delete(f.errs, field)
}

func (f *FormState) Field(name string) string {
	return f.errs[name]
}

func (f *FormState) Errors() Errors {
	return copyErrors(f.errs)
}

func copyErrors(in map[string]string) Errors {
	out := make(Errors, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
