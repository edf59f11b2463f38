// Package config loads typed configuration from the process environment.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for tag-driven parsing. Every authkit package
// exposes a Config struct annotated with `env` and `envDefault` tags; hosts
// load those structs here and hand them to the matching NewFromConfig
// constructor:
//
//	var idCfg identity.Config
//	config.MustLoad(&idCfg)
//	client := identity.NewFromConfig(idCfg)
//
// Errors can be compared with errors.Is:
//
//   - ErrParsingConfig  – env vars could not be parsed (missing required value, bad duration, ...).
//   - ErrLoadingEnvFile – an explicitly named .env file could not be read.
//   - ErrNilPointer     – nil pointer passed to Load.
package config
