package main

import (
	"github.com/dmitrymomot/authkit/pkg/guard"
	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/identity"
	"github.com/dmitrymomot/authkit/pkg/persist"
	"github.com/dmitrymomot/authkit/pkg/redis"
	"github.com/dmitrymomot/authkit/pkg/session"
	"github.com/dmitrymomot/authkit/pkg/sqlite"
)

// Storage drivers.
const (
	driverMemory = "memory"
	driverFile   = "file"
	driverRedis  = "redis"
	driverSQLite = "sqlite"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Service  string `env:"APP_NAME" envDefault:"authctl"`
	LogLevel string `env:"LOG_LEVEL" envDefault:""`
	Storage  string `env:"AUTH_STORAGE" envDefault:"file"`

	Identity identity.Config
	Session  session.Config
	Persist  persist.Config
	Guard    guard.Config
	Redis    redis.Config
	SQLite   sqlite.Config
	HTTP     httpserver.Config
}
