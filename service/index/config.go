package index

// DefaultConfig is the default configuration for the index writer.
var DefaultConfig = Config{
	LockStripes: 64,
}

// Config is the configuration of an index writer.
type Config struct {
	LockStripes uint
}

// Option customizes the configuration of an index writer.
type Option func(*Config)

// WithLockStripes sets the number of lock stripes used to serialize record
// mutations. More stripes allow more unrelated records to be mutated
// concurrently.
func WithLockStripes(stripes uint) Option {
	return func(cfg *Config) {
		cfg.LockStripes = stripes
	}
}
