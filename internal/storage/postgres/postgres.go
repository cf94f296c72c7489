// Package postgres is the storage backend for shared deployments. Units of
// work lock the people rows, which serializes every allocation decision.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS people (
    id         TEXT PRIMARY KEY,
    name       TEXT    NOT NULL,
    client_ids TEXT[]  NOT NULL DEFAULT '{}',
    position   INTEGER NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS clients (
    seq        BIGSERIAL,
    id         TEXT PRIMARY KEY,
    name       TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tasks (
    seq          BIGSERIAL PRIMARY KEY,
    id           TEXT             NOT NULL UNIQUE,
    person_id    TEXT             NOT NULL REFERENCES people (id) ON DELETE CASCADE,
    description  TEXT             NOT NULL,
    duration     DOUBLE PRECISION NOT NULL CHECK (duration >= 0),
    is_completed BOOLEAN          NOT NULL DEFAULT FALSE,
    client_id    TEXT,
    client_name  TEXT,
    tags         TEXT[]           NOT NULL DEFAULT '{}',
    due_date     TIMESTAMPTZ,
    created_at   TIMESTAMPTZ      NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_person ON tasks (person_id, seq);
`

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(pgTx pgx.Tx) error {
		return fn(ctx, &tx{q: pgTx})
	})
}

func (s *Store) LoadRoster(ctx context.Context) (models.Roster, error) {
	return loadRoster(ctx, s.pool, false)
}

func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM clients ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select clients: %w", err)
	}

	clients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Client, error) {
		var c models.Client
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan clients: %w", err)
	}
	return clients, nil
}

type tx struct {
	q querier
}

func (t *tx) LoadRoster(ctx context.Context) (models.Roster, error) {
	return loadRoster(ctx, t.q, true)
}

func (t *tx) InsertTask(ctx context.Context, personID string, task models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   person_id,
                   description,
                   duration,
                   is_completed,
                   client_id,
                   client_name,
                   tags,
                   due_date,
                   created_at)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10)
`
	_, err := t.q.Exec(ctx, insertTaskQuery,
		task.ID,
		personID,
		task.Description,
		task.Duration,
		task.IsCompleted,
		task.ClientID,
		task.ClientName,
		nonNil(task.Tags),
		task.DueDate,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (t *tx) SetTaskCompleted(ctx context.Context, personID, taskID string, completed bool) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE tasks SET is_completed = $1 WHERE id = $2 AND person_id = $3`,
		completed, taskID, personID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *tx) DeleteTask(ctx context.Context, personID, taskID string) error {
	tag, err := t.q.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND person_id = $2`,
		taskID, personID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *tx) FindClient(ctx context.Context, clientID string) (models.Client, error) {
	var c models.Client
	err := t.q.QueryRow(ctx, `SELECT id, name FROM clients WHERE id = $1`, clientID).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Client{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("select client: %w", err)
	}
	return c, nil
}

func (t *tx) InsertClient(ctx context.Context, client models.Client) error {
	_, err := t.q.Exec(ctx,
		`INSERT INTO clients (id, name) VALUES ($1, $2)`,
		client.ID, client.Name)
	if isUniqueViolation(err) {
		return storage.ErrClientAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (t *tx) InsertPerson(ctx context.Context, person models.Person, position int) error {
	_, err := t.q.Exec(ctx,
		`INSERT INTO people (id, name, client_ids, position) VALUES ($1, $2, $3, $4)`,
		person.ID, person.Name, nonNil(person.ClientIDs), position)
	if isUniqueViolation(err) {
		return storage.ErrPersonAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (t *tx) Reset(ctx context.Context) error {
	if _, err := t.q.Exec(ctx, `TRUNCATE tasks, clients, people`); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

func loadRoster(ctx context.Context, q querier, lock bool) (models.Roster, error) {
	selectPeopleQuery := `SELECT id, name, client_ids FROM people ORDER BY position`
	if lock {
		selectPeopleQuery += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, selectPeopleQuery)
	if err != nil {
		return nil, fmt.Errorf("select people: %w", err)
	}
	people, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Person, error) {
		var p models.Person
		err := row.Scan(&p.ID, &p.Name, &p.ClientIDs)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan people: %w", err)
	}

	const selectTasksQuery = `
SELECT person_id,
       id,
       description,
       duration,
       is_completed,
       COALESCE(client_id, ''),
       COALESCE(client_name, ''),
       tags,
       due_date,
       created_at
FROM tasks
ORDER BY seq
`
	rows, err = q.Query(ctx, selectTasksQuery)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	taskRows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (storage.TaskRow, error) {
		var (
			r       storage.TaskRow
			dueDate *time.Time
		)
		err := row.Scan(
			&r.PersonID,
			&r.Task.ID,
			&r.Task.Description,
			&r.Task.Duration,
			&r.Task.IsCompleted,
			&r.Task.ClientID,
			&r.Task.ClientName,
			&r.Task.Tags,
			&dueDate,
			&r.Task.CreatedAt,
		)
		r.Task.DueDate = dueDate
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan tasks: %w", err)
	}

	return storage.BuildRoster(people, taskRows), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
