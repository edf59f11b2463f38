package sqlite

import "errors"

var (
	ErrEmptyPath         = errors.New("empty sqlite database path")
	ErrInvalidTable      = errors.New("invalid sqlite table name")
	ErrDatabaseNotReady  = errors.New("sqlite database did not become ready within the given time period")
	ErrHealthcheckFailed = errors.New("sqlite healthcheck failed")
)
