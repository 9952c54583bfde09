package apiclient

import (
	"context"
	"net/http"

	"farmmarket/console/internal/models"
)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.Do(ctx, http.MethodPost, "/auth/login", req, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.Do(ctx, http.MethodPost, "/auth/register", req, &out)
	return out, err
}
