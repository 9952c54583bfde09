package session

import (
	"context"
	"errors"
	"fmt"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
)

// Redirect is returned by Guard when the caller must leave the view.
type Redirect struct {
	To     string
	Reason error
}

func (r *Redirect) Error() string {
	return fmt.Sprintf("redirect to %s: %v", r.To, r.Reason)
}

func (r *Redirect) Unwrap() error { return r.Reason }

var ErrForbiddenView = errors.New("view not permitted for role")

// Guard loads the session for a protected view. Without a session the caller
// is sent to the entry view; a role outside the view's set goes to the
// dashboard.
func (s *Store) Guard(ctx context.Context, view nav.View) (models.Session, error) {
	sess, err := s.Load(ctx)
	if errors.Is(err, ErrNoSession) {
		return models.Session{}, &Redirect{To: nav.EntryPath, Reason: err}
	}
	if err != nil {
		return models.Session{}, err
	}
	if !nav.Allowed(view, sess.User.Role) {
		return sess, &Redirect{To: nav.DefaultPath, Reason: ErrForbiddenView}
	}
	return sess, nil
}

// AsRedirect reports the redirect target carried by err, if any.
func AsRedirect(err error) (string, bool) {
	var r *Redirect
	if errors.As(err, &r) {
		return r.To, true
	}
	return "", false
}
