package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Operation records the operation name (signin, getuser, save, ...) under the key "op".
func Operation(name string) slog.Attr {
	return slog.String("op", name)
}

// Attempt records a sign-in/sign-up attempt identifier under the key "attempt_id".
// Empty ids produce an empty Attr.
func Attempt(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("attempt_id", id)
}

// Generation records the attempt generation counter under the key "generation".
func Generation(n uint64) slog.Attr {
	return slog.Uint64("generation", n)
}

// Phase records a session phase name under the key "phase".
func Phase(name string) slog.Attr {
	return slog.String("phase", name)
}

// Endpoint records a remote endpoint URL under the key "endpoint".
func Endpoint(url string) slog.Attr {
	return slog.String("endpoint", url)
}

// Status records an HTTP status code under the key "status".
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// StorageKey records a persistence key under the key "storage_key".
func StorageKey(key string) slog.Attr {
	return slog.String("storage_key", key)
}

// Path records a navigation path under the key "path".
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// Duration records an elapsed duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
