package api

import (
	"context"
	"net/http"

	"github.com/and161185/shopfront/internal/model"
)

// AuthAPI covers /auth endpoints.
type AuthAPI struct{ c *Client }

// Login exchanges credentials for a token and profile.
func (a *AuthAPI) Login(ctx context.Context, cr model.Credentials) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := a.c.Do(ctx, http.MethodPost, "/auth/login", nil, cr, &out)
	return out, err
}

// Register creates an account and signs it in.
func (a *AuthAPI) Register(ctx context.Context, r model.Registration) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := a.c.Do(ctx, http.MethodPost, "/auth/register", nil, r, &out)
	return out, err
}

// Refresh renews the current token.
func (a *AuthAPI) Refresh(ctx context.Context) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := a.c.Do(ctx, http.MethodPost, "/auth/refresh", nil, nil, &out)
	return out, err
}

// ForgotPassword starts the reset flow for email.
func (a *AuthAPI) ForgotPassword(ctx context.Context, email string) error {
	return a.c.Do(ctx, http.MethodPost, "/auth/forgot-password", nil, map[string]string{"email": email}, nil)
}

// ResetPassword completes the reset flow.
func (a *AuthAPI) ResetPassword(ctx context.Context, r model.PasswordReset) error {
	return a.c.Do(ctx, http.MethodPost, "/auth/reset-password", nil, r, nil)
}
