package identity_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/identity"
)

type fakeService struct {
	signin  http.HandlerFunc
	getuser http.HandlerFunc
	signup  http.HandlerFunc

	getuserCalls atomic.Int32
	lastToken    atomic.Value
}

func (f *fakeService) server(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signin", func(w http.ResponseWriter, r *http.Request) {
		f.signin(w, r)
	})
	mux.HandleFunc("POST /auth/getuser", func(w http.ResponseWriter, r *http.Request) {
		f.getuserCalls.Add(1)
		var body struct {
			AccessToken string `json:"accessToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastToken.Store(body.AccessToken)
		f.getuser(w, r)
	})
	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		f.signup(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newClient(t *testing.T, srv *httptest.Server, opts ...identity.Option) *identity.Client {
	t.Helper()
	c, err := identity.New(srv.URL+"/auth", opts...)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid url", func(t *testing.T) {
		t.Parallel()
		c, err := identity.New("https://id.example.com/auth")
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	for _, raw := range []string{"", "id.example.com", "ftp://id.example.com", "http://"} {
		raw := raw
		t.Run("invalid "+raw, func(t *testing.T) {
			t.Parallel()
			_, err := identity.New(raw)
			assert.ErrorIs(t, err, identity.ErrInvalidBaseURL)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	_, err := identity.NewFromConfig(identity.Config{BaseURL: "https://id.example.com", RequestTimeout: time.Second})
	require.NoError(t, err)

	_, err = identity.NewFromConfig(identity.Config{})
	assert.ErrorIs(t, err, identity.ErrInvalidBaseURL)
}

func TestClient_SignIn(t *testing.T) {
	t.Parallel()

	const profile = `{"username":"alice","email":"alice@example.com"}`

	t.Run("nested token bundle", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin:  writeJSON(http.StatusOK, `{"AuthenticationResult":{"IdToken":"id-1","AccessToken":"acc-1","RefreshToken":"ref-1"}}`),
			getuser: writeJSON(http.StatusOK, profile),
		}
		c := newClient(t, svc.server(t))

		res, err := c.SignIn(context.Background(), identity.Credentials{Username: "alice", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "id-1", res.Tokens.IDToken)
		assert.Equal(t, "acc-1", res.Tokens.AccessToken)
		assert.Equal(t, "ref-1", res.Tokens.RefreshToken)
		assert.JSONEq(t, profile, string(res.User))
		assert.Equal(t, "acc-1", svc.lastToken.Load())
	})

	t.Run("flat token bundle", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin:  writeJSON(http.StatusOK, `{"IdToken":"id-2","AccessToken":"acc-2"}`),
			getuser: writeJSON(http.StatusOK, profile),
		}
		c := newClient(t, svc.server(t))

		res, err := c.SignIn(context.Background(), identity.Credentials{Username: "alice", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "id-2", res.Tokens.IDToken)
		assert.Equal(t, "acc-2", res.Tokens.AccessToken)
		assert.Empty(t, res.Tokens.RefreshToken)
	})

	t.Run("rejected with server message", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin:  writeJSON(http.StatusUnauthorized, `{"error":"bad credentials"}`),
			getuser: writeJSON(http.StatusOK, profile),
		}
		c := newClient(t, svc.server(t))

		res, err := c.SignIn(context.Background(), identity.Credentials{Username: "alice", Password: "wrong"})
		require.Error(t, err)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, identity.ErrRejected)
		assert.Equal(t, "bad credentials", identity.Message(err, ""))
		assert.Zero(t, svc.getuserCalls.Load(), "profile must not be fetched after rejection")

		var ie *identity.Error
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, http.StatusUnauthorized, ie.Status)
	})

	t.Run("rejected without server message", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin:  writeJSON(http.StatusInternalServerError, `oops`),
			getuser: writeJSON(http.StatusOK, profile),
		}
		c := newClient(t, svc.server(t))

		_, err := c.SignIn(context.Background(), identity.Credentials{})
		assert.ErrorIs(t, err, identity.ErrRejected)
		assert.Equal(t, identity.MsgSignInFailed, identity.Message(err, ""))
	})

	t.Run("malformed token bundle", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin:  writeJSON(http.StatusOK, `{"unexpected":true}`),
			getuser: writeJSON(http.StatusOK, profile),
		}
		c := newClient(t, svc.server(t))

		_, err := c.SignIn(context.Background(), identity.Credentials{})
		assert.ErrorIs(t, err, identity.ErrMalformedResponse)
		assert.Equal(t, identity.MsgSignInFailed, identity.Message(err, ""))
		assert.Zero(t, svc.getuserCalls.Load())
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin:  writeJSON(http.StatusOK, `<html></html>`),
			getuser: writeJSON(http.StatusOK, profile),
		}
		c := newClient(t, svc.server(t))

		_, err := c.SignIn(context.Background(), identity.Credentials{})
		assert.ErrorIs(t, err, identity.ErrMalformedResponse)
	})

	t.Run("profile fetch fails", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin:  writeJSON(http.StatusOK, `{"IdToken":"id","AccessToken":"acc"}`),
			getuser: writeJSON(http.StatusForbidden, `{"error":"token revoked"}`),
		}
		c := newClient(t, svc.server(t))

		res, err := c.SignIn(context.Background(), identity.Credentials{})
		require.Error(t, err)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, identity.ErrProfileFetch)
		assert.ErrorIs(t, err, identity.ErrRejected, "cause is preserved")
		assert.Equal(t, "token revoked", identity.Message(err, ""))
	})

	t.Run("profile fetch fails without message", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin:  writeJSON(http.StatusOK, `{"IdToken":"id","AccessToken":"acc"}`),
			getuser: writeJSON(http.StatusBadGateway, ``),
		}
		c := newClient(t, svc.server(t))

		_, err := c.SignIn(context.Background(), identity.Credentials{})
		assert.ErrorIs(t, err, identity.ErrProfileFetch)
		assert.Equal(t, identity.MsgGetUserFailed, identity.Message(err, ""))
	})

	t.Run("profile fetch connection dropped", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin: writeJSON(http.StatusOK, `{"IdToken":"id","AccessToken":"acc"}`),
			getuser: func(w http.ResponseWriter, _ *http.Request) {
				conn, _, err := w.(http.Hijacker).Hijack()
				if err == nil {
					_ = conn.Close()
				}
			},
		}
		c := newClient(t, svc.server(t))

		_, err := c.SignIn(context.Background(), identity.Credentials{})
		assert.ErrorIs(t, err, identity.ErrProfileFetch)
		assert.ErrorIs(t, err, identity.ErrTransport, "cause is preserved")
		assert.Equal(t, identity.MsgGetUserFailed, identity.Message(err, ""))
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c, err := identity.New(url)
		require.NoError(t, err)

		_, err = c.SignIn(context.Background(), identity.Credentials{})
		assert.ErrorIs(t, err, identity.ErrTransport)
		assert.NotEmpty(t, identity.Message(err, ""))
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{
			signin: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			getuser: writeJSON(http.StatusOK, profile),
		}
		c := newClient(t, svc.server(t), identity.WithTimeout(50*time.Millisecond))

		_, err := c.SignIn(context.Background(), identity.Credentials{})
		assert.ErrorIs(t, err, identity.ErrTransport)
	})
}

func TestClient_SignUp(t *testing.T) {
	t.Parallel()

	t.Run("success returns payload", func(t *testing.T) {
		t.Parallel()

		received := make(chan identity.Registration, 1)
		svc := &fakeService{
			signup: func(w http.ResponseWriter, r *http.Request) {
				var reg identity.Registration
				_ = json.NewDecoder(r.Body).Decode(&reg)
				received <- reg
				writeJSON(http.StatusCreated, `{"userConfirmed":false}`)(w, r)
			},
		}
		c := newClient(t, svc.server(t))

		payload, err := c.SignUp(context.Background(), identity.Registration{
			FirstName: "Ada", LastName: "Lovelace", Password: "pw", Email: "ada@example.com",
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"userConfirmed":false}`, string(payload))
		got := <-received
		assert.Equal(t, "ada@example.com", got.Email)
		assert.Equal(t, "Ada", got.FirstName)
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{signup: writeJSON(http.StatusBadRequest, `{"error":"email taken"}`)}
		c := newClient(t, svc.server(t))

		_, err := c.SignUp(context.Background(), identity.Registration{})
		assert.ErrorIs(t, err, identity.ErrRejected)
		assert.Equal(t, "email taken", identity.Message(err, ""))
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		svc := &fakeService{signup: writeJSON(http.StatusOK, `not json`)}
		c := newClient(t, svc.server(t))

		_, err := c.SignUp(context.Background(), identity.Registration{})
		assert.ErrorIs(t, err, identity.ErrMalformedResponse)
		assert.Equal(t, identity.MsgSignUpFailed, identity.Message(err, ""))
	})
}

func TestMessage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, identity.Message(nil, "x"))
	assert.Equal(t, "fallback", identity.Message(errors.New("boom"), "fallback"))
	assert.Equal(t, "boom", identity.Message(errors.New("boom"), ""))
	assert.Equal(t, "msg", identity.Message(&identity.Error{Kind: identity.KindRejected, Message: "msg"}, "fallback"))
}
