package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/validate"
)

var ErrIncompleteProfile = errors.New("auth response has no user id")

var LoginFallbacks = Fallbacks{
	Unauthorized: "Invalid email or password",
	Forbidden:    "Invalid email or password",
	Default:      "Login failed. Please try again.",
}

var RegisterFallbacks = Fallbacks{
	Default: "Registration failed. Please try again.",
}

type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
}

type AuthService struct {
	api      AuthAPI
	sessions Sessions
	log      zerolog.Logger
}

func NewAuthService(api AuthAPI, sessions Sessions, log zerolog.Logger) *AuthService {
	return &AuthService{
		api:      api,
		sessions: sessions,
		log:      log,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (models.Session, error) {
	req, errs := validate.Login(email, password)
	if err := errs.Err(); err != nil {
		return models.Session{}, err
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}
	return s.establish(ctx, resp)
}

func (s *AuthService) Register(ctx context.Context, form validate.RegistrationForm) (models.Session, error) {
	req, errs := validate.Registration(form)
	if err := errs.Err(); err != nil {
		return models.Session{}, err
	}

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return models.Session{}, fmt.Errorf("register: %w", err)
	}
	return s.establish(ctx, resp)
}

// establish persists the session from an auth response. A response without
// a user id is refused rather than stored.
func (s *AuthService) establish(ctx context.Context, resp models.AuthResponse) (models.Session, error) {
	sess := resp.Session()
	if !sess.Valid() {
		return models.Session{}, ErrIncompleteProfile
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return models.Session{}, fmt.Errorf("store session: %w", err)
	}
	s.log.Info().Int64("user_id", sess.User.ID).Str("role", string(sess.User.Role)).Msg("signed in")
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) Current(ctx context.Context) (models.Session, error) {
	return s.sessions.Load(ctx)
}
