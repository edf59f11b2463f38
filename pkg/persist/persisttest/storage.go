// Package persisttest provides a conformance suite for persist.Storage backends.
package persisttest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/persist"
)

// RunStorageTests exercises the behaviour every backend must share.
// newStorage is called once per subtest and must return an empty storage.
func RunStorageTests(t *testing.T, newStorage func(t *testing.T) persist.Storage) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		s := newStorage(t)
		got, err := s.Get(context.Background(), "authState")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set and get", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "authState", []byte(`{"token":"a"}`), time.Hour))
		got, err := s.Get(ctx, "authState")
		require.NoError(t, err)
		assert.Equal(t, `{"token":"a"}`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "authState", []byte(`1`), time.Hour))
		require.NoError(t, s.Set(ctx, "authState", []byte(`2`), time.Hour))
		got, err := s.Get(ctx, "authState")
		require.NoError(t, err)
		assert.Equal(t, `2`, string(got))
	})

	t.Run("no ttl", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "authState", []byte(`1`), 0))
		got, err := s.Get(ctx, "authState")
		require.NoError(t, err)
		assert.Equal(t, `1`, string(got))
	})

	t.Run("delete", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "authState", []byte(`1`), time.Hour))
		require.NoError(t, s.Delete(ctx, "authState"))
		got, err := s.Get(ctx, "authState")
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, s.Delete(ctx, "authState"), "deleting a missing key")
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := newStorage(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "a", []byte(`1`), time.Hour))
		require.NoError(t, s.Set(ctx, "b", []byte(`2`), time.Hour))
		require.NoError(t, s.Delete(ctx, "a"))

		got, err := s.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, `2`, string(got))
	})
}
