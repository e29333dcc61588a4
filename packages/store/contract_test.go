package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContractTests runs the CRUD contract suite against a Store
// implementation. Each backend calls this with its own factory so the
// behavior stays identical across backends.
func runContractTests(t *testing.T, factory func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Set(ctx, "API_KEY", "secret"))

		value, err := s.Get(ctx, "API_KEY")
		require.NoError(t, err)
		assert.Equal(t, "secret", value)
	})

	t.Run("get absent key", func(t *testing.T) {
		s := factory(t)

		_, err := s.Get(ctx, "MISSING")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate set fails", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Set(ctx, "API_KEY", "first"))

		err := s.Set(ctx, "API_KEY", "second")
		assert.ErrorIs(t, err, ErrDuplicateKey)

		// The original value is untouched
		value, err := s.Get(ctx, "API_KEY")
		require.NoError(t, err)
		assert.Equal(t, "first", value)
	})

	t.Run("update existing key", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Set(ctx, "API_KEY", "old"))
		require.NoError(t, s.Update(ctx, "API_KEY", "new"))

		value, err := s.Get(ctx, "API_KEY")
		require.NoError(t, err)
		assert.Equal(t, "new", value)
	})

	t.Run("update absent key fails", func(t *testing.T) {
		s := factory(t)

		err := s.Update(ctx, "MISSING", "value")
		assert.ErrorIs(t, err, ErrNotFound)

		// Update never creates
		_, err = s.Get(ctx, "MISSING")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete existing key", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Set(ctx, "API_KEY", "secret"))
		require.NoError(t, s.Delete(ctx, "API_KEY"))

		_, err := s.Get(ctx, "API_KEY")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete absent key fails", func(t *testing.T) {
		s := factory(t)

		err := s.Delete(ctx, "MISSING")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get all", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Set(ctx, "HOST", "localhost"))
		require.NoError(t, s.Set(ctx, "PORT", "8080"))

		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"HOST": "localhost",
			"PORT": "8080",
		}, all)
	})

	t.Run("get all empty collection", func(t *testing.T) {
		s := factory(t)

		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("empty value round-trips", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Set(ctx, "EMPTY", ""))

		value, err := s.Get(ctx, "EMPTY")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})
}
