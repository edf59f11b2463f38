package redis

import "errors"

var (
	ErrEmptyConnectionURL   = errors.New("redis: connection URL is empty")
	ErrInvalidConnectionURL = errors.New("redis: connection URL cannot be parsed")
	ErrNotReady             = errors.New("redis: server not reachable, session storage unavailable")
	ErrHealthcheckFailed    = errors.New("redis: session storage healthcheck failed")
)
