//go:build integration

package session

import (
	"context"
	"testing"

	"github.com/cloo-solutions/jobfinder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Integration(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc)
	defer pool.Close()

	testStoreContract(t, NewPostgresStore(pool, "integration"))
}

func TestPostgresStore_Integration_ManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc)
	defer pool.Close()
	require.NoError(t, testutil.TruncateAll(ctx, pool))

	m := NewManager(NewPostgresStore(pool, "default"), nil)
	require.NoError(t, m.SetSession(ctx, "tok", testUser()))

	fresh := NewManager(NewPostgresStore(pool, "default"), nil)
	require.NoError(t, fresh.Load(ctx))
	assert.True(t, fresh.IsLoggedIn())
	assert.Equal(t, testUser(), fresh.CurrentUser())

	other := NewManager(NewPostgresStore(pool, "other"), nil)
	require.NoError(t, other.Load(ctx))
	assert.False(t, other.IsLoggedIn())
}

func TestOpen_Integration_Postgres(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	store, err := Open(ctx, Options{Backend: BackendPostgres, DatabaseURL: pc.ConnectionString()})
	require.NoError(t, err)
	defer Close(store)

	require.NoError(t, store.Set(ctx, map[string]string{KeyToken: "tok"}))
	v, ok, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
}
