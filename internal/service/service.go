// Package service holds the operations behind each console view: it checks
// input locally, calls the backend and keeps the view's copy of the data.
package service

import (
	"context"
	"errors"

	"farmmarket/console/internal/models"
)

var (
	ErrNotPermitted  = errors.New("not permitted")
	ErrMissingUserID = errors.New("session has no user id")
	ErrTerminal      = errors.New("status is final")
	ErrNotCandidate  = errors.New("status not offered")
	ErrNotFound      = errors.New("record not loaded")
)

// PermissionError is a refusal decided locally from the role tables.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

func (e *PermissionError) Unwrap() error { return ErrNotPermitted }

func denied(msg string) error {
	return &PermissionError{Message: msg}
}

type Sessions interface {
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, sess models.Session) error
	Clear(ctx context.Context) error
}
