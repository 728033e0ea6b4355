package config

import (
	"fmt"
	"strings"
	"time"
)

// NoticeTransport selects the push transport for the notice channel.
type NoticeTransport string

const (
	// NoticeTransportSSE subscribes to the backend's SSE notice stream.
	NoticeTransportSSE NoticeTransport = "sse"
	// NoticeTransportRedis subscribes to a Redis pub/sub channel.
	NoticeTransportRedis NoticeTransport = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for NoticeTransport.
func (t *NoticeTransport) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "sse", "redis":
		*t = NoticeTransport(v)
		return nil
	default:
		return fmt.Errorf("invalid NoticeTransport: %q (valid options: sse, redis)", v)
	}
}

// NoticesConfig configures the notice channel.
type NoticesConfig struct {
	// Transport selects how pushed notices arrive.
	Transport NoticeTransport `env:"TRANSPORT" envDefault:"sse"`

	// Redis connection settings (used when Transport=redis).
	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"       envDefault:"0"`
	RedisChannel  string `env:"REDIS_CHANNEL"  envDefault:"notices:new"`

	// Reconnect policy for the push subscription. HealthyDuration is how long
	// a connection must survive before the retry budget resets.
	MaxRetries      int           `env:"MAX_RETRIES"      envDefault:"5"`
	BaseDelay       time.Duration `env:"BASE_DELAY"       envDefault:"500ms"`
	MaxDelay        time.Duration `env:"MAX_DELAY"        envDefault:"30s"`
	HealthyDuration time.Duration `env:"HEALTHY_DURATION" envDefault:"10s"`
}

const maxReconnectRetries = 20

// Sanitize applies guardrails to notice channel configuration.
func (c *NoticesConfig) Sanitize() {
	if c.Transport == "" {
		c.Transport = NoticeTransportSSE
	}
	if c.RedisChannel == "" {
		c.RedisChannel = "notices:new"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.MaxRetries > maxReconnectRetries {
		c.MaxRetries = maxReconnectRetries
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 500 * time.Millisecond
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = 30 * time.Second
	}
	if c.HealthyDuration <= 0 {
		c.HealthyDuration = 10 * time.Second
	}
}
