package persist

import (
	"log/slog"
	"time"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithRetention sets how long a saved record stays valid.
func WithRetention(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.retention = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}
