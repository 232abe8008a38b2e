package identity

import (
	"context"
	"path/filepath"
	"testing"

	"floure-storefront/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openStateDB(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := database.Connect(path)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestSessionIDGeneratedOnceAndPersisted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	first := NewStore(openStateDB(t, path), nil).GetOrCreateSessionID(ctx)
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	store := NewStore(openStateDB(t, path), nil)
	assert.Equal(t, first, store.GetOrCreateSessionID(ctx))
	assert.Equal(t, first, store.GetOrCreateSessionID(ctx))
	assert.True(t, store.Durable())
}

func TestCartReferenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	store := NewStore(openStateDB(t, path), nil)
	_, ok := store.CartReference(ctx)
	assert.False(t, ok)

	store.SetCartReference(ctx, 41)
	store.SetCartReference(ctx, 42)

	reopened := NewStore(openStateDB(t, path), nil)
	id, ok := reopened.CartReference(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestMalformedCartReferenceIgnored(t *testing.T) {
	ctx := context.Background()
	db := openStateDB(t, filepath.Join(t.TempDir(), "state.db"))
	store := NewStore(db, nil)
	require.NoError(t, store.write(ctx, CartIDKey, "not-a-number"))

	_, ok := store.CartReference(ctx)
	assert.False(t, ok)
}

func TestMemoryFallbackWithoutDatabase(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, nil)
	assert.False(t, store.Durable())

	session := store.GetOrCreateSessionID(ctx)
	assert.NotEmpty(t, session)
	assert.Equal(t, session, store.GetOrCreateSessionID(ctx))

	_, ok := store.CartReference(ctx)
	assert.False(t, ok)
	store.SetCartReference(ctx, 7)
	id, ok := store.CartReference(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestStorageFailureDegradesSilently(t *testing.T) {
	ctx := context.Background()
	db := openStateDB(t, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, database.Close(db))

	store := NewStore(db, nil)
	session := store.GetOrCreateSessionID(ctx)
	assert.NotEmpty(t, session)
	assert.Equal(t, session, store.GetOrCreateSessionID(ctx))

	store.SetCartReference(ctx, 9)
	id, ok := store.CartReference(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(9), id)
}

func TestResetForgetsIdentifiers(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openStateDB(t, filepath.Join(t.TempDir(), "state.db")), nil)

	before := store.GetOrCreateSessionID(ctx)
	store.SetCartReference(ctx, 3)
	store.Reset(ctx)

	_, ok := store.CartReference(ctx)
	assert.False(t, ok)
	assert.NotEqual(t, before, store.GetOrCreateSessionID(ctx))
}
