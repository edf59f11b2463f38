package persist_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/identity"
	"github.com/dmitrymomot/authkit/pkg/persist"
	"github.com/dmitrymomot/authkit/pkg/session"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type stubAuthenticator struct{}

func (stubAuthenticator) SignIn(_ context.Context, creds identity.Credentials) (*identity.Result, error) {
	if creds.Password != "secret" {
		return nil, &identity.Error{Kind: identity.KindRejected, Message: "bad credentials"}
	}
	return &identity.Result{
		Tokens: identity.Tokens{IDToken: "id-" + creds.Username, AccessToken: "acc"},
		User:   json.RawMessage(`{"username":"` + creds.Username + `"}`),
	}, nil
}

func (stubAuthenticator) SignUp(context.Context, identity.Registration) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func ptr(s string) *string { return &s }

func signedIn() session.State {
	return session.State{
		Token:      ptr("id-token"),
		User:       json.RawMessage(`{"username":"alice"}`),
		IsLoggedIn: true,
	}
}

func TestAdapter_SaveLoad(t *testing.T) {
	t.Parallel()

	t.Run("roundtrip", func(t *testing.T) {
		t.Parallel()

		a := persist.New(persist.NewMemoryStorage())
		ctx := context.Background()
		state := signedIn()

		before := time.Now()
		require.NoError(t, a.Save(ctx, state))

		rec, ok := a.Load(ctx)
		require.True(t, ok)
		assert.Equal(t, state, rec.State)
		assert.True(t, rec.ExpiresAt().After(before))
		assert.WithinDuration(t, before.Add(persist.DefaultRetention), rec.ExpiresAt(), time.Minute)
	})

	t.Run("anonymous roundtrip", func(t *testing.T) {
		t.Parallel()

		a := persist.New(persist.NewMemoryStorage())
		ctx := context.Background()
		state := session.State{Error: ptr("Sign in failed")}

		require.NoError(t, a.Save(ctx, state))
		rec, ok := a.Load(ctx)
		require.True(t, ok)
		assert.Equal(t, state, rec.State)
	})

	t.Run("wire format", func(t *testing.T) {
		t.Parallel()

		storage := persist.NewMemoryStorage()
		a := persist.New(storage)
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, signedIn()))

		raw, err := storage.Get(ctx, persist.DefaultKey)
		require.NoError(t, err)

		var fields map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &fields))
		assert.ElementsMatch(t,
			[]string{"token", "user", "loading", "error", "isLoggedIn", "expiration"},
			keys(fields),
		)
		assert.JSONEq(t, `"id-token"`, string(fields["token"]))
		assert.JSONEq(t, `null`, string(fields["error"]))
	})

	t.Run("expiration strictly increases", func(t *testing.T) {
		t.Parallel()

		c := &clock{now: time.Unix(1_700_000_000, 0)}
		a := persist.New(persist.NewMemoryStorage(), persist.WithClock(c.Now))
		ctx := context.Background()
		state := signedIn()

		require.NoError(t, a.Save(ctx, state))
		first, ok := a.Load(ctx)
		require.True(t, ok)

		require.NoError(t, a.Save(ctx, state))
		second, ok := a.Load(ctx)
		require.True(t, ok)

		assert.Equal(t, first.State, second.State)
		assert.Greater(t, second.Expiration, first.Expiration)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		a := persist.New(persist.NewMemoryStorage())
		rec, ok := a.Load(context.Background())
		assert.False(t, ok)
		assert.Nil(t, rec)
	})

	t.Run("expired record is deleted", func(t *testing.T) {
		t.Parallel()

		storage := persist.NewMemoryStorage()
		a := persist.New(storage)
		ctx := context.Background()

		past := persist.Record{State: signedIn(), Expiration: time.Now().Add(-time.Minute).UnixMilli()}
		data, err := json.Marshal(past)
		require.NoError(t, err)
		require.NoError(t, storage.Set(ctx, persist.DefaultKey, data, 0))

		rec, ok := a.Load(ctx)
		assert.False(t, ok)
		assert.Nil(t, rec)

		raw, err := storage.Get(ctx, persist.DefaultKey)
		require.NoError(t, err)
		assert.Nil(t, raw)
	})

	t.Run("record expires after retention", func(t *testing.T) {
		t.Parallel()

		c := &clock{now: time.Unix(1_700_000_000, 0)}
		storage := persist.NewMemoryStorage()
		a := persist.New(storage, persist.WithClock(c.Now), persist.WithRetention(time.Hour))
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, signedIn()))

		c.Advance(59 * time.Minute)
		_, ok := a.Load(ctx)
		assert.True(t, ok)

		c.Advance(time.Minute)
		_, ok = a.Load(ctx)
		assert.True(t, ok, "valid at the exact expiration instant")

		c.Advance(time.Millisecond)
		_, ok = a.Load(ctx)
		assert.False(t, ok)
	})

	t.Run("record without expiration", func(t *testing.T) {
		t.Parallel()

		storage := persist.NewMemoryStorage()
		a := persist.New(storage)
		ctx := context.Background()

		data, err := json.Marshal(persist.Record{State: signedIn()})
		require.NoError(t, err)
		require.NoError(t, storage.Set(ctx, persist.DefaultKey, data, 0))

		rec, ok := a.Load(ctx)
		require.True(t, ok)
		assert.Equal(t, "id-token", rec.TokenValue())
	})

	t.Run("corrupt record", func(t *testing.T) {
		t.Parallel()

		storage := persist.NewMemoryStorage()
		a := persist.New(storage)
		ctx := context.Background()

		require.NoError(t, storage.Set(ctx, persist.DefaultKey, []byte(`{not json`), 0))

		rec, ok := a.Load(ctx)
		assert.False(t, ok)
		assert.Nil(t, rec)
	})

	t.Run("custom key", func(t *testing.T) {
		t.Parallel()

		storage := persist.NewMemoryStorage()
		a := persist.New(storage, persist.WithKey("other"))
		ctx := context.Background()

		require.NoError(t, a.Save(ctx, signedIn()))
		raw, err := storage.Get(ctx, "other")
		require.NoError(t, err)
		assert.NotNil(t, raw)
		assert.Equal(t, "other", a.Key())
	})
}

func TestAdapter_StorageFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exceeded")

	storage := &MockStorage{}
	storage.On("Set", mock.Anything, persist.DefaultKey, mock.Anything, persist.DefaultRetention).Return(boom)
	storage.On("Get", mock.Anything, persist.DefaultKey).Return(nil, boom)
	storage.On("Delete", mock.Anything, persist.DefaultKey).Return(boom)

	a := persist.New(storage)
	ctx := context.Background()

	err := a.Save(ctx, signedIn())
	assert.ErrorIs(t, err, persist.ErrStorage)
	assert.ErrorIs(t, err, boom)

	_, ok := a.Load(ctx)
	assert.False(t, ok)

	assert.ErrorIs(t, a.Clear(ctx), persist.ErrStorage)

	storage.AssertExpectations(t)
}

func TestAdapter_Observe(t *testing.T) {
	t.Parallel()

	storage := persist.NewMemoryStorage()
	a := persist.New(storage)
	m := session.New(stubAuthenticator{})
	ctx := context.Background()

	stop := a.Observe(m)

	require.NoError(t, m.SignIn(ctx, identity.Credentials{Username: "alice", Password: "secret"}))
	rec, ok := a.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "id-alice", rec.TokenValue())
	assert.True(t, rec.IsLoggedIn)
	assert.False(t, rec.Loading)

	require.Error(t, m.SignIn(ctx, identity.Credentials{Username: "alice", Password: "wrong"}))
	rec, ok = a.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "bad credentials", rec.ErrorValue())
	assert.Equal(t, "id-alice", rec.TokenValue())

	m.SignOut(ctx)
	_, ok = a.Load(ctx)
	assert.False(t, ok)

	stop()
	require.NoError(t, m.SignIn(ctx, identity.Credentials{Username: "bob", Password: "secret"}))
	_, ok = a.Load(ctx)
	assert.False(t, ok, "no saves after unsubscribe")
}

func TestAdapter_Observe_StorageFailureDoesNotBlockSignIn(t *testing.T) {
	t.Parallel()

	storage := &MockStorage{}
	storage.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("unavailable"))

	a := persist.New(storage)
	m := session.New(stubAuthenticator{})
	a.Observe(m)

	require.NoError(t, m.SignIn(context.Background(), identity.Credentials{Username: "alice", Password: "secret"}))
	assert.True(t, m.Snapshot().IsLoggedIn)
}

// cancelOnSignIn cancels the caller's context before reporting success, the
// way a client disconnect lands right after the identity service answers.
type cancelOnSignIn struct {
	stubAuthenticator
	cancel context.CancelFunc
}

func (c cancelOnSignIn) SignIn(ctx context.Context, creds identity.Credentials) (*identity.Result, error) {
	c.cancel()
	return c.stubAuthenticator.SignIn(ctx, creds)
}

func TestAdapter_Observe_CancelledContext(t *testing.T) {
	t.Parallel()

	t.Run("sign out still clears the record", func(t *testing.T) {
		t.Parallel()

		a := persist.New(persist.NewMemoryStorage())
		m := session.New(stubAuthenticator{})
		a.Observe(m)

		require.NoError(t, m.SignIn(context.Background(), identity.Credentials{Username: "alice", Password: "secret"}))
		_, ok := a.Load(context.Background())
		require.True(t, ok)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m.SignOut(ctx)

		assert.False(t, m.Snapshot().IsLoggedIn)
		_, ok = a.Load(context.Background())
		assert.False(t, ok, "record must be removed after sign-out")
	})

	t.Run("sign in still saves the token", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		a := persist.New(persist.NewMemoryStorage())
		m := session.New(cancelOnSignIn{cancel: cancel})
		a.Observe(m)

		require.NoError(t, m.SignIn(ctx, identity.Credentials{Username: "alice", Password: "secret"}))
		require.Error(t, ctx.Err())
		require.True(t, m.Snapshot().IsLoggedIn)

		rec, ok := a.Load(context.Background())
		require.True(t, ok)
		assert.Equal(t, "id-alice", rec.TokenValue())
		assert.False(t, rec.Loading)
	})
}

func TestAdapter_Rehydrate(t *testing.T) {
	t.Parallel()

	storage := persist.NewMemoryStorage()
	ctx := context.Background()

	first := session.New(stubAuthenticator{})
	a := persist.New(storage)
	a.Observe(first)
	require.NoError(t, first.SignIn(ctx, identity.Credentials{Username: "alice", Password: "secret"}))

	restarted := session.New(stubAuthenticator{})
	require.True(t, a.Rehydrate(ctx, restarted))
	assert.Equal(t, first.Snapshot(), restarted.Snapshot())
	assert.Equal(t, session.PhaseAuthenticated, restarted.Phase())

	empty := persist.New(persist.NewMemoryStorage())
	assert.False(t, empty.Rehydrate(ctx, session.New(stubAuthenticator{})))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
