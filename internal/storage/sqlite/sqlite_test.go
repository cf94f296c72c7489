package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/storage"
	"github.com/fercho159-aq/taskflow/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestStore(t *testing.T) {
	storagetest.Run(t, newTestStore(t))
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskflow.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	storagetest.Seed(t, store, []models.Person{models.NewPerson("1", "Omar", nil, nil)}, nil)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	roster, err := store.LoadRoster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "Omar", roster[0].Name)
}

func TestStore_DuplicatePerson(t *testing.T) {
	store := newTestStore(t)

	err := store.Atomically(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		if err := tx.InsertPerson(ctx, models.NewPerson("1", "Omar", nil, nil), 0); err != nil {
			return err
		}
		return tx.InsertPerson(ctx, models.NewPerson("1", "Omar", nil, nil), 1)
	})
	assert.ErrorIs(t, err, storage.ErrPersonAlreadyExists)
}
