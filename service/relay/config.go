package relay

// DefaultConfig is the default configuration for the relay client.
var DefaultConfig = Config{
	PageBudget: 10,
}

// Config is the configuration of a relay client.
type Config struct {
	PageBudget uint
}

// Option customizes the configuration of a relay client.
type Option func(*Config)

// WithPageBudget bounds how many pages one pending listing may follow. The
// budget keeps a misbehaving relay from dragging a pull into an unbounded
// crawl.
func WithPageBudget(budget uint) Option {
	return func(cfg *Config) {
		cfg.PageBudget = budget
	}
}
