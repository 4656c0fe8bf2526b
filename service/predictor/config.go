package predictor

// DefaultConfig is the default configuration for the address predictor.
var DefaultConfig = Config{
	MaxAttempts: 100,
}

// Config is the configuration of an address predictor.
type Config struct {
	MaxAttempts uint64
}

// Option customizes the configuration of an address predictor.
type Option func(*Config)

// WithMaxAttempts sets the number of salt nonces tried before the search
// gives up. The ceiling is what bounds the search when every candidate
// address turns out to be occupied.
func WithMaxAttempts(attempts uint64) Option {
	return func(cfg *Config) {
		cfg.MaxAttempts = attempts
	}
}
