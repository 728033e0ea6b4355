package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - backend.go: Backend address configuration
//   - auth.go: Authentication configuration
//   - credentials.go: Credential store configuration
//   - notices.go: Notice channel configuration
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or APP_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Backend address configuration
	Backend BackendConfig `envPrefix:"BACKEND_"`

	// Authentication configuration
	Auth AuthConfig `envPrefix:"AUTH_"`

	// Credential store configuration
	Credentials CredentialsConfig `envPrefix:"CREDENTIALS_"`

	// Notice channel configuration
	Notices NoticesConfig `envPrefix:"NOTICES_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Backend.Sanitize()
	c.Credentials.Sanitize()
	c.Notices.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
