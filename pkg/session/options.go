package session

import "log/slog"

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithWatchBuffer sets how many changes a Watch subscriber buffers before
// further changes are dropped for it.
func WithWatchBuffer(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.watchBuffer = n
		}
	}
}
