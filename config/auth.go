package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the client.
type AuthMode string

const (
	// AuthModePassword exchanges a user id and password with the backend.
	AuthModePassword AuthMode = "password"
	// AuthModeMock uses a locally configured identity (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, mock)", v)
	}
}

// MockAuthConfig controls the mock identity used when Mode=mock.
type MockAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"dev-user"`
	Name   string `env:"NAME"    envDefault:"Dev User"`
	Role   string `env:"ROLE"    envDefault:"faculty"`
	Token  string `env:"TOKEN"   envDefault:"dev-token"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication path to use.
	Mode AuthMode `env:"MODE" envDefault:"password"`

	// UserID and Password support unattended (kiosk/noticeboard) deployments
	// that sign in at startup. Interactive deployments leave them empty.
	UserID   string `env:"USER_ID"`
	Password string `env:"PASSWORD"`

	// Mock configuration (used when Mode=mock).
	Mock MockAuthConfig `envPrefix:"MOCK_"`
}
