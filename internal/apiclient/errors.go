package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind int

const (
	KindNetwork Kind = iota
	KindUnauthorized
	KindValidation
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	default:
		return "server"
	}
}

// Error is a failed backend call. Status is zero when no response arrived.
// The payload is kept either as Message or, for validation failures, as
// Fields.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	case len(e.Fields) > 0:
		return fmt.Sprintf("%s %s: %d invalid fields", e.Method, e.Path, e.Status)
	default:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Kind() Kind {
	switch {
	case e.Status == 0:
		return KindNetwork
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return KindUnauthorized
	case len(e.Fields) > 0:
		return KindValidation
	default:
		return KindServer
	}
}

func newStatusError(method, path string, status int, raw []byte) *Error {
	e := &Error{Method: method, Path: path, Status: status}
	body := strings.TrimSpace(string(raw))
	if body == "" {
		return e
	}

	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		e.Message = msg
		return e
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		e.Message = body
		return e
	}
	if m, ok := obj["message"].(string); ok && m != "" {
		e.Message = m
		return e
	}
	if m, ok := obj["error"].(string); ok && m != "" {
		e.Message = m
		return e
	}

	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}

func asError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func KindOf(err error) (Kind, bool) {
	if apiErr, ok := asError(err); ok {
		return apiErr.Kind(), true
	}
	return 0, false
}

func StatusOf(err error) int {
	if apiErr, ok := asError(err); ok {
		return apiErr.Status
	}
	return 0
}

func IsNetwork(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNetwork
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

func IsForbidden(err error) bool {
	return StatusOf(err) == http.StatusForbidden
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// FieldErrors returns the per-field messages of a validation failure.
func FieldErrors(err error) map[string]string {
	if apiErr, ok := asError(err); ok {
		return apiErr.Fields
	}
	return nil
}
