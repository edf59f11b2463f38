package identity

import "time"

// Config holds the identity client configuration.
type Config struct {
	// BaseURL is the identity API root; endpoint names are joined onto it.
	BaseURL string `env:"AUTH_API_URL,required"`

	// RequestTimeout bounds each HTTP round trip. Zero disables the client timeout.
	RequestTimeout time.Duration `env:"AUTH_REQUEST_TIMEOUT" envDefault:"30s"`

	// MaxResponseBytes caps how much of a response body is read.
	MaxResponseBytes int64 `env:"AUTH_MAX_RESPONSE_BYTES" envDefault:"1048576"`
}

// NewFromConfig creates a Client from cfg. Options are applied after the config values.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	configOpts := []Option{WithTimeout(cfg.RequestTimeout)}
	if cfg.MaxResponseBytes > 0 {
		configOpts = append(configOpts, WithMaxResponseBytes(cfg.MaxResponseBytes))
	}
	return New(cfg.BaseURL, append(configOpts, opts...)...)
}
