package session_test

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/authkit/pkg/identity"
)

// MockAuthenticator is a mock implementation of session.Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) SignIn(ctx context.Context, creds identity.Credentials) (*identity.Result, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Result), args.Error(1)
}

func (m *MockAuthenticator) SignUp(ctx context.Context, reg identity.Registration) (json.RawMessage, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
