package session

// Config holds session manager configuration.
type Config struct {
	WatchBuffer int `env:"AUTH_WATCH_BUFFER" envDefault:"16"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{WatchBuffer: 16}
}

// NewFromConfig creates a Manager from cfg. Options are applied after the config values.
func NewFromConfig(auth Authenticator, cfg Config, opts ...Option) *Manager {
	return New(auth, append([]Option{WithWatchBuffer(cfg.WatchBuffer)}, opts...)...)
}
