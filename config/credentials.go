package config

import (
	"os"
	"path/filepath"
)

// credentialFileName is the fixed key the record is stored under.
const credentialFileName = "credentials.enc"

// CredentialsConfig configures the encrypted credential store.
type CredentialsConfig struct {
	// Path is the credential record location. Defaults to
	// <user config dir>/campus-client/credentials.enc.
	Path string `env:"PATH"`

	// EncryptionKey is the base64-encoded 32-byte AES-256 key for the record
	// at rest. Required for production; when absent the record is stored with
	// a marked plaintext encoding and a warning is logged.
	EncryptionKey string `env:"ENCRYPTION_KEY"`
}

// Sanitize applies guardrails to credential store configuration.
func (c *CredentialsConfig) Sanitize() {
	if c.Path != "" {
		return
	}
	if dir, err := os.UserConfigDir(); err == nil {
		c.Path = filepath.Join(dir, "campus-client", credentialFileName)
		return
	}
	// No resolvable config dir (rare, e.g. stripped container env).
	c.Path = credentialFileName
}
