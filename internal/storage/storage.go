// Package storage defines the persistence contract used by the services.
// Every allocator decision is made inside Store.Atomically so that the
// roster read and the resulting write are serialized against concurrent
// requests.
package storage

import (
	"context"
	"errors"

	"github.com/fercho159-aq/taskflow/internal/models"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrClientAlreadyExists = errors.New("client already exists")
	ErrPersonAlreadyExists = errors.New("person already exists")
)

// Tx is the view of the store inside one atomic unit of work.
type Tx interface {
	// LoadRoster returns people in roster order with their tasks in
	// insertion order. Implementations lock the roster until the
	// surrounding unit of work ends.
	LoadRoster(ctx context.Context) (models.Roster, error)

	InsertTask(ctx context.Context, personID string, task models.Task) error
	SetTaskCompleted(ctx context.Context, personID, taskID string, completed bool) error
	DeleteTask(ctx context.Context, personID, taskID string) error

	// FindClient returns ErrNotFound when no client has the given id.
	FindClient(ctx context.Context, clientID string) (models.Client, error)
	InsertClient(ctx context.Context, client models.Client) error

	InsertPerson(ctx context.Context, person models.Person, position int) error

	// Reset removes every person, client and task.
	Reset(ctx context.Context) error
}

type Store interface {
	// Atomically runs fn in a single transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	Atomically(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	LoadRoster(ctx context.Context) (models.Roster, error)
	ListClients(ctx context.Context) ([]models.Client, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// TaskRow is a task together with the id of its owner, as read from a
// task table.
type TaskRow struct {
	PersonID string
	Task     models.Task
}

// BuildRoster attaches rows to their owners, keeping row order within each
// person, and derives every workload.
func BuildRoster(people []models.Person, rows []TaskRow) models.Roster {
	roster := make(models.Roster, len(people))
	index := make(map[string]int, len(people))
	for i, p := range people {
		roster[i] = p
		roster[i].Tasks = nil
		index[p.ID] = i
	}

	for _, row := range rows {
		i, ok := index[row.PersonID]
		if !ok {
			continue
		}
		roster[i].Tasks = append(roster[i].Tasks, row.Task)
	}

	for i := range roster {
		roster[i].Refresh()
	}
	return roster
}
