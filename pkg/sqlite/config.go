package sqlite

import "time"

type Config struct {
	Path           string        `env:"SQLITE_PATH" envDefault:".authkit/sessions.db"` // Path of the database file.
	Table          string        `env:"SQLITE_TABLE" envDefault:"auth_state"`          // Table holding the key-value rows.
	RetryAttempts  int           `env:"SQLITE_RETRY_ATTEMPTS" envDefault:"3"`          // RetryAttempts is the total number of open attempts.
	RetryInterval  time.Duration `env:"SQLITE_RETRY_INTERVAL" envDefault:"200ms"`      // RetryInterval is the delay between attempts.
	ConnectTimeout time.Duration `env:"SQLITE_CONNECT_TIMEOUT" envDefault:"10s"`       // ConnectTimeout bounds the whole open sequence.
}
