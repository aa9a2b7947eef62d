package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsanders-rh/ocpconsole/internal/store"
	"github.com/tsanders-rh/ocpconsole/pkg/types"
)

// setupTestStore connects to the database named by TEST_DATABASE_URL
func setupTestStore(t *testing.T) *store.Store {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	st, err := store.NewStore(ctx, store.DefaultConfig(dbURL))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.NoError(t, st.Migrate(ctx))
	return st
}

func TestPullSecretStore(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	userID := types.GenerateID()

	t.Run("missing secret is not found", func(t *testing.T) {
		secret, found, err := st.PullSecrets.Get(ctx, userID)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, secret)
	})

	t.Run("save then get", func(t *testing.T) {
		require.NoError(t, st.PullSecrets.Save(ctx, userID, `{"auths":{"a":{}}}`))

		secret, found, err := st.PullSecrets.Get(ctx, userID)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"auths":{"a":{}}}`, secret)
	})

	t.Run("save replaces existing secret", func(t *testing.T) {
		require.NoError(t, st.PullSecrets.Save(ctx, userID, `{"auths":{"b":{}}}`))

		ps, err := st.PullSecrets.GetByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, `{"auths":{"b":{}}}`, ps.Secret)
		assert.False(t, ps.UpdatedAt.Before(ps.CreatedAt))
	})

	t.Run("get by unknown user is not found", func(t *testing.T) {
		_, err := st.PullSecrets.GetByUser(ctx, types.GenerateID())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
