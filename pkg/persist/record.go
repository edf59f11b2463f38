package persist

import (
	"time"

	"github.com/dmitrymomot/authkit/pkg/session"
)

// Record is the persisted form of a session state.
// Expiration is in Unix milliseconds.
type Record struct {
	session.State
	Expiration int64 `json:"expiration"`
}

// ExpiresAt returns Expiration as a time.
func (r Record) ExpiresAt() time.Time {
	return time.UnixMilli(r.Expiration)
}

// Expired reports whether the record is no longer valid at now.
// A record is still valid at the exact expiration instant. A record without
// an expiration never expires.
func (r Record) Expired(now time.Time) bool {
	return r.Expiration > 0 && now.UnixMilli() > r.Expiration
}
