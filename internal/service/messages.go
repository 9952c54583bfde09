package service

import (
	"errors"

	"farmmarket/console/internal/apiclient"
	"farmmarket/console/internal/validate"
)

const networkMessage = "Network error. Please try again."

// Fallbacks are the view-specific texts used when the backend's own message
// should not be shown. Empty fields fall through to the server message.
type Fallbacks struct {
	Unauthorized string
	Forbidden    string
	Default      string
}

// ViewError is an error converted for display next to the action that
// raised it.
type ViewError struct {
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	// ForceLogout is set on 401 so the view can offer to sign in again.
	ForceLogout bool `json:"forceLogout,omitempty"`
}

// Message picks the user-facing text for err.
func Message(err error, fb Fallbacks) string {
	if err == nil {
		return ""
	}

	var fe *validate.FieldError
	if errors.As(err, &fe) {
		return fe.Message
	}

	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		if msg := localMessage(err); msg != "" {
			return msg
		}
		return orDefault(fb.Default, err.Error())
	}

	switch {
	case apiErr.Kind() == apiclient.KindNetwork:
		return networkMessage
	case apiclient.IsUnauthorized(err) && fb.Unauthorized != "":
		return fb.Unauthorized
	case apiclient.IsForbidden(err) && fb.Forbidden != "":
		return fb.Forbidden
	case apiErr.Message != "":
		return apiErr.Message
	default:
		return orDefault(fb.Default, apiErr.Error())
	}
}

func Describe(err error, fb Fallbacks) ViewError {
	v := ViewError{
		Message:     Message(err, fb),
		ForceLogout: apiclient.IsUnauthorized(err),
	}
	if fields := validate.FieldsOf(err); len(fields) > 0 {
		v.Fields = fields
	} else if fields := apiclient.FieldErrors(err); len(fields) > 0 {
		v.Fields = fields
	}
	return v
}

func localMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotPermitted):
		var pe *PermissionError
		if errors.As(err, &pe) {
			return pe.Message
		}
	case errors.Is(err, ErrMissingUserID):
		return "Please log out and log back in to view orders"
	case errors.Is(err, ErrIncompleteProfile):
		return "Login response did not include a user id"
	case errors.Is(err, ErrTerminal):
		return "This record can no longer be updated"
	case errors.Is(err, ErrNotCandidate):
		return "That status cannot be selected"
	}
	return ""
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
