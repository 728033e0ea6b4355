package config

import (
	"strings"
	"time"
)

// BackendConfig holds the single configured backend base address. Every
// request and the notice stream go through this address; screens never carry
// their own.
type BackendConfig struct {
	// BaseURL is the backend base address, scheme included.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Timeout bounds individual REST requests. The notice stream is exempt.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to backend configuration.
func (c *BackendConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}
