// Package storagetest holds behaviour every storage.Store must share.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/storage"
)

// Seed replaces the store contents with people in the given order and
// clients.
func Seed(t *testing.T, store storage.Store, people []models.Person, clients []models.Client) {
	t.Helper()

	err := store.Atomically(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		if err := tx.Reset(ctx); err != nil {
			return err
		}
		for i, p := range people {
			if err := tx.InsertPerson(ctx, p, i); err != nil {
				return err
			}
			for _, task := range p.Tasks {
				if err := tx.InsertTask(ctx, p.ID, task); err != nil {
					return err
				}
			}
		}
		for _, c := range clients {
			if err := tx.InsertClient(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

// Run exercises store, which must be migrated and may hold data: every
// test starts by reseeding it.
func Run(t *testing.T, store storage.Store) {
	ctx := context.Background()
	due := time.Date(2024, time.June, 11, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)

	people := []models.Person{
		models.NewPerson("1", "Omar", []string{"client-1", "client-2"}, []models.Task{
			{ID: "t-1", Description: "Landing", Duration: 2.5, ClientID: "client-1", ClientName: "Acme", Tags: []string{models.TagNewClient}, DueDate: &due, CreatedAt: created},
			{ID: "t-2", Description: "Audit", Duration: 1, IsCompleted: true, CreatedAt: created},
		}),
		models.NewPerson("2", "Fernando", []string{"client-3"}, nil),
		models.NewPerson("3", "Julio", nil, []models.Task{
			{ID: "t-3", Description: "Report", Duration: 4, CreatedAt: created},
		}),
	}
	clients := []models.Client{{ID: "client-1", Name: "Acme"}, {ID: "client-2", Name: "Globex"}}

	t.Run("load roster keeps order and derives workload", func(t *testing.T) {
		Seed(t, store, people, clients)

		roster, err := store.LoadRoster(ctx)
		require.NoError(t, err)
		require.Len(t, roster, 3)

		assert.Equal(t, []string{"1", "2", "3"}, []string{roster[0].ID, roster[1].ID, roster[2].ID})
		assert.Equal(t, []string{"client-1", "client-2"}, roster[0].ClientIDs)
		assert.InDelta(t, 2.5, roster[0].TotalHours(), 1e-9)
		assert.InDelta(t, 0, roster[1].TotalHours(), 1e-9)
		assert.InDelta(t, 4, roster[2].TotalHours(), 1e-9)

		require.Len(t, roster[0].Tasks, 2)
		first := roster[0].Tasks[0]
		assert.Equal(t, "t-1", first.ID)
		assert.Equal(t, "Acme", first.ClientName)
		assert.Equal(t, []string{models.TagNewClient}, first.Tags)
		require.NotNil(t, first.DueDate)
		assert.True(t, due.Equal(*first.DueDate))
		assert.True(t, created.Equal(first.CreatedAt))
		assert.Nil(t, roster[0].Tasks[1].DueDate)
		assert.Empty(t, roster[0].Tasks[1].ClientID)
	})

	t.Run("tasks keep insertion order", func(t *testing.T) {
		Seed(t, store, people, clients)

		err := store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
			for _, id := range []string{"z", "a", "m"} {
				task := models.Task{ID: id, Description: id, Duration: 1, CreatedAt: created}
				if err := tx.InsertTask(ctx, "2", task); err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)

		roster, err := store.LoadRoster(ctx)
		require.NoError(t, err)
		ids := make([]string, 0, 3)
		for _, task := range roster[1].Tasks {
			ids = append(ids, task.ID)
		}
		assert.Equal(t, []string{"z", "a", "m"}, ids)
	})

	t.Run("set completed and delete", func(t *testing.T) {
		Seed(t, store, people, clients)

		err := store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
			if err := tx.SetTaskCompleted(ctx, "1", "t-1", true); err != nil {
				return err
			}
			return tx.DeleteTask(ctx, "3", "t-3")
		})
		require.NoError(t, err)

		roster, err := store.LoadRoster(ctx)
		require.NoError(t, err)
		assert.True(t, roster[0].Tasks[0].IsCompleted)
		assert.InDelta(t, 0, roster[0].TotalHours(), 1e-9)
		assert.Empty(t, roster[2].Tasks)
	})

	t.Run("missing task is not found", func(t *testing.T) {
		Seed(t, store, people, clients)

		err := store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
			return tx.SetTaskCompleted(ctx, "2", "t-1", true)
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
			return tx.DeleteTask(ctx, "1", "nope")
		})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("failed unit of work rolls back", func(t *testing.T) {
		Seed(t, store, people, clients)
		boom := errors.New("boom")

		err := store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
			if err := tx.InsertTask(ctx, "2", models.Task{ID: "rb", Description: "x", Duration: 1, CreatedAt: created}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		roster, err := store.LoadRoster(ctx)
		require.NoError(t, err)
		assert.Empty(t, roster[1].Tasks)
	})

	t.Run("clients", func(t *testing.T) {
		Seed(t, store, people, clients)

		listed, err := store.ListClients(ctx)
		require.NoError(t, err)
		assert.Equal(t, clients, listed)

		err = store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
			return tx.InsertClient(ctx, models.Client{ID: "client-1", Name: "Again"})
		})
		assert.ErrorIs(t, err, storage.ErrClientAlreadyExists)

		err = store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
			c, err := tx.FindClient(ctx, "client-2")
			if err != nil {
				return err
			}
			assert.Equal(t, "Globex", c.Name)

			_, err = tx.FindClient(ctx, "client-9")
			assert.ErrorIs(t, err, storage.ErrNotFound)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("clients are listed in insertion order", func(t *testing.T) {
		unordered := []models.Client{
			{ID: "client-c", Name: "Zeta"},
			{ID: "client-a", Name: "Alpha"},
			{ID: "client-b", Name: "Mid"},
		}
		Seed(t, store, people, unordered)

		listed, err := store.ListClients(ctx)
		require.NoError(t, err)
		assert.Equal(t, unordered, listed)

		err = store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
			return tx.InsertClient(ctx, models.Client{ID: "client-0", Name: "Late"})
		})
		require.NoError(t, err)

		listed, err = store.ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 4)
		assert.Equal(t, "client-0", listed[3].ID)
	})

	t.Run("concurrent units of work are serialized", func(t *testing.T) {
		Seed(t, store, people, clients)

		const workers = 8
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
					roster, err := tx.LoadRoster(ctx)
					if err != nil {
						return err
					}
					// Always give the new task to whoever holds the fewest tasks.
					best := 0
					for j := range roster {
						if len(roster[j].Tasks) < len(roster[best].Tasks) {
							best = j
						}
					}
					task := models.Task{
						ID:          "c-" + string(rune('a'+i)),
						Description: "concurrent",
						Duration:    1,
						CreatedAt:   created,
					}
					return tx.InsertTask(ctx, roster[best].ID, task)
				})
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		roster, err := store.LoadRoster(ctx)
		require.NoError(t, err)
		counts := make([]int, len(roster))
		for i, p := range roster {
			counts[i] = len(p.Tasks)
		}
		// 3 seeded tasks + 8 new ones spread so no one trails by more than one.
		assert.ElementsMatch(t, []int{4, 4, 3}, counts)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}
