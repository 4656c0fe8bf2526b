package chain

import (
	"time"
)

// DefaultConfig is the default configuration for the chain client.
var DefaultConfig = Config{
	CallTimeout:  10 * time.Second,
	PollInterval: 2 * time.Second,
}

// Config is the configuration of a chain client.
type Config struct {
	CallTimeout  time.Duration
	PollInterval time.Duration
}

// Option customizes the configuration of a chain client.
type Option func(*Config)

// WithCallTimeout bounds every single backend call with the given timeout.
func WithCallTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.CallTimeout = timeout
	}
}

// WithPollInterval sets the interval at which confirmation polling checks
// for a transaction receipt.
func WithPollInterval(interval time.Duration) Option {
	return func(cfg *Config) {
		cfg.PollInterval = interval
	}
}
