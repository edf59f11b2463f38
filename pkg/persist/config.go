package persist

import "time"

// Config holds persistence configuration.
type Config struct {
	Key       string        `env:"AUTH_STORAGE_KEY" envDefault:"authState"`
	Retention time.Duration `env:"AUTH_SESSION_RETENTION" envDefault:"24h"`
	Dir       string        `env:"AUTH_STORAGE_DIR" envDefault:".authkit"`
}

// NewFromConfig creates an Adapter over storage from cfg.
func NewFromConfig(storage Storage, cfg Config, opts ...Option) *Adapter {
	return New(storage, append([]Option{WithKey(cfg.Key), WithRetention(cfg.Retention)}, opts...)...)
}

// NewFileStorageFromConfig creates a FileStorage in cfg.Dir.
func NewFileStorageFromConfig(cfg Config) (*FileStorage, error) {
	return NewFileStorage(cfg.Dir)
}
