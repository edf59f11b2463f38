package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// LoadEnv loads one or more .env files into the process environment.
// Variables that are already set are not overridden.
// With no paths the default ".env" is tried and a missing file is not an error.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		defaultEnvLoaded.Do(func() {
			_ = godotenv.Load()
		})
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("failed to load env files: %v", err))
	}
}

// Load populates v from environment variables using `env` / `envDefault` tags.
// The default .env file is read once before the first parse.
//
// Example:
//
//	type IdentityConfig struct {
//		BaseURL string        `env:"AUTH_API_URL,required"`
//		Timeout time.Duration `env:"AUTH_REQUEST_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg IdentityConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	return LoadWithPrefix("", v)
}

// LoadWithPrefix is like Load but prepends prefix to every variable name,
// so one struct type can be loaded for several instances (e.g. "PRIMARY_", "BACKUP_").
func LoadWithPrefix[T any](prefix string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	_ = LoadEnv()

	if err := env.ParseWithOptions(v, env.Options{Prefix: prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// Parse returns a freshly parsed value of T.
func Parse[T any]() (T, error) {
	var v T
	err := Load(&v)
	return v, err
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it for configuration the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
