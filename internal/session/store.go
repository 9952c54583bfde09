// Package session persists the signed-in user's token and profile.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/storage"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

var ErrNoSession = errors.New("no session")

type Store struct {
	storage storage.Storage
	logger  zerolog.Logger
}

func NewStore(s storage.Storage, logger zerolog.Logger) *Store {
	return &Store{storage: s, logger: logger}
}

// storedUser keeps id as a pointer so a record written without it can be
// told apart from a zero id.
type storedUser struct {
	ID    *int64      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

// Load returns the persisted session. A stored user without an id, or a
// token or user left without its partner, is purged and reported as
// ErrNoSession.
func (s *Store) Load(ctx context.Context) (models.Session, error) {
	raw, hasUser, err := s.get(ctx, UserKey)
	if err != nil {
		return models.Session{}, err
	}
	token, hasToken, err := s.get(ctx, TokenKey)
	if err != nil {
		return models.Session{}, err
	}
	if !hasUser && !hasToken {
		return models.Session{}, ErrNoSession
	}

	var stored storedUser
	if hasUser {
		if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.ID == nil {
			s.logger.Warn().Err(err).Msg("discarding stored user without id")
			return models.Session{}, s.purge(ctx)
		}
	}
	if !hasUser || token == "" {
		s.logger.Warn().Bool("user", hasUser).Bool("token", hasToken).Msg("discarding incomplete session")
		return models.Session{}, s.purge(ctx)
	}

	return models.Session{
		Token: token,
		User: models.User{
			ID:    *stored.ID,
			Email: stored.Email,
			Name:  stored.Name,
			Role:  stored.Role,
		},
	}, nil
}

// purge clears both keys and reports the session as absent.
func (s *Store) purge(ctx context.Context) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}
	return ErrNoSession
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.storage.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Save(ctx context.Context, sess models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("save session: %w", ErrNoSession)
	}
	id := sess.User.ID
	raw, err := json.Marshal(storedUser{
		ID:    &id,
		Email: sess.User.Email,
		Name:  sess.User.Name,
		Role:  sess.User.Role,
	})
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, TokenKey, sess.Token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := s.storage.Set(ctx, UserKey, string(raw)); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Remove(ctx, TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	if err := s.storage.Remove(ctx, UserKey); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when signed out.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.storage.Get(ctx, TokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return token, err
}
