package persist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/session"
)

// Defaults.
const (
	DefaultKey       = "authState"
	DefaultRetention = 24 * time.Hour
)

// Adapter saves the session state under a single key with an expiration and
// reads it back. Read failures never surface: a missing, corrupt or expired
// record simply means there is no persisted session.
type Adapter struct {
	storage   Storage
	key       string
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger

	mu             sync.Mutex
	lastExpiration int64
}

// New creates an Adapter over storage.
func New(storage Storage, opts ...Option) *Adapter {
	if storage == nil {
		panic("persist: storage is required")
	}

	a := &Adapter{
		storage:   storage,
		key:       DefaultKey,
		retention: DefaultRetention,
		now:       time.Now,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Key returns the storage key used for the record.
func (a *Adapter) Key() string {
	return a.key
}

// Save writes state with a fresh expiration, overwriting any previous record.
// Successive saves always produce a strictly later expiration.
func (a *Adapter) Save(ctx context.Context, state session.State) error {
	a.mu.Lock()
	exp := a.now().Add(a.retention).UnixMilli()
	if exp <= a.lastExpiration {
		exp = a.lastExpiration + 1
	}
	a.lastExpiration = exp

	rec := Record{State: state, Expiration: exp}
	data, err := json.Marshal(rec)
	if err != nil {
		a.mu.Unlock()
		return errors.Join(ErrStorage, err)
	}

	// Writes stay under the lock so the newest expiration is the one stored.
	err = a.storage.Set(ctx, a.key, data, a.retention)
	a.mu.Unlock()
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

// Load returns the persisted record if one exists and has not expired.
// An expired record is deleted. Corrupt records and storage failures are
// logged and reported as not found.
func (a *Adapter) Load(ctx context.Context) (*Record, bool) {
	rec, err := a.read(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to load persisted session",
			logger.Component("persist"),
			logger.StorageKey(a.key),
			logger.Error(err),
		)
		return nil, false
	}
	return rec, rec != nil
}

func (a *Adapter) read(ctx context.Context) (*Record, error) {
	data, err := a.storage.Get(ctx, a.key)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	if data == nil {
		return nil, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Join(ErrCorruptRecord, err)
	}

	if rec.Expired(a.now()) {
		a.logger.DebugContext(ctx, "persisted session expired",
			logger.Component("persist"),
			logger.StorageKey(a.key),
		)
		if err := a.storage.Delete(ctx, a.key); err != nil {
			return nil, errors.Join(ErrStorage, err)
		}
		return nil, nil
	}

	// The stored flag is not trusted over the token itself.
	rec.IsLoggedIn = rec.Token != nil
	if !rec.HasUser() {
		rec.User = nil
	}
	return &rec, nil
}

// Clear removes the persisted record.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.storage.Delete(ctx, a.key); err != nil {
		return errors.Join(ErrStorage, err)
	}
	return nil
}

// Observe subscribes the adapter to m: sign-out clears the record, every
// other change saves it. Failures are logged only. The returned function
// stops observing.
//
// Writes ignore cancellation of the mutating call's context: once the
// in-memory state has changed, storage must follow it.
func (a *Adapter) Observe(m *session.Manager) (unsubscribe func()) {
	return m.OnChange(func(ctx context.Context, c session.Change) {
		wctx := context.WithoutCancel(ctx)
		var err error
		op := "save"
		if c.Event == session.EventSignedOut {
			op = "clear"
			err = a.Clear(wctx)
		} else {
			err = a.Save(wctx, c.State)
		}
		if err != nil {
			a.logger.WarnContext(ctx, "failed to persist session",
				logger.Component("persist"),
				logger.Operation(op),
				logger.StorageKey(a.key),
				logger.Error(err),
			)
		}
	})
}

// Rehydrate loads the persisted record and seeds m with it.
// It reports whether a session was restored.
func (a *Adapter) Rehydrate(ctx context.Context, m *session.Manager) bool {
	rec, ok := a.Load(ctx)
	if !ok {
		return false
	}
	return m.Rehydrate(ctx, rec.State)
}
