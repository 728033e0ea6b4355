// Package devauth provides a simple, config-driven AuthAPI for local
// development. It accepts any password for the configured user and never
// talks to a backend.
package devauth

import (
	"context"
	"errors"

	apperrors "github.com/campuskit/campus-client/internal/errors"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	"github.com/campuskit/campus-client/internal/ports"
)

// Config controls the dev auth identity.
type Config struct {
	UserID string
	Name   string
	Role   string
	Token  string
}

// API implements ports.AuthAPI for local development.
type API struct {
	user  domainauth.User
	token string
}

// NewAPI constructs a dev auth API from Config.
func NewAPI(cfg Config) (*API, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Token == "" {
		return nil, errors.New("dev auth: Token is required")
	}
	role, err := domainauth.ParseRole(cfg.Role)
	if err != nil {
		return nil, err
	}
	return &API{
		user:  domainauth.User{ID: cfg.UserID, Name: cfg.Name, Role: role},
		token: cfg.Token,
	}, nil
}

// Login returns the configured identity for the configured user id,
// regardless of password.
func (a *API) Login(_ context.Context, userID, _ string) (ports.Credentials, error) {
	if userID != a.user.ID {
		return ports.Credentials{}, apperrors.InvalidCredentials()
	}
	return ports.Credentials{Token: a.token, User: a.user}, nil
}

// Validate accepts only the configured token.
func (a *API) Validate(_ context.Context, token string) (domainauth.User, error) {
	if token != a.token {
		return domainauth.User{}, apperrors.SessionValidation("unknown dev token")
	}
	return a.user, nil
}

// Logout is a no-op.
func (a *API) Logout(context.Context, string) error { return nil }

var _ ports.AuthAPI = (*API)(nil)
