package httpserver

import "errors"

// Sentinel errors returned by Server. The underlying cause is joined to them.
var (
	ErrStart    = errors.New("httpserver: serving auth endpoints failed")
	ErrShutdown = errors.New("httpserver: graceful shutdown did not complete")
)
