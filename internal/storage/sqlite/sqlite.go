// Package sqlite is the embedded storage backend. It keeps a single open
// connection, so units of work are serialized by the pool itself.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS people (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	client_ids TEXT NOT NULL DEFAULT '[]',
	position INTEGER NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS clients (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	person_id TEXT NOT NULL,
	description TEXT NOT NULL,
	duration REAL NOT NULL CHECK (duration >= 0),
	is_completed INTEGER NOT NULL DEFAULT 0,
	client_id TEXT,
	client_name TEXT,
	tags TEXT NOT NULL DEFAULT '[]',
	due_date TEXT,
	created_at TEXT NOT NULL,
	FOREIGN KEY (person_id) REFERENCES people(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_tasks_person ON tasks(person_id, seq);
`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

// Open opens the database at path. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err = db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	return &Store{db: db}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = sqlTx.Rollback() }()

	if err = fn(ctx, &tx{q: sqlTx}); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) LoadRoster(ctx context.Context) (models.Roster, error) {
	return loadRoster(ctx, s.db)
}

func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM clients ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("select clients: %w", err)
	}
	defer rows.Close()

	clients := make([]models.Client, 0)
	for rows.Next() {
		var c models.Client
		if err = rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

type tx struct {
	q querier
}

// LoadRoster needs no explicit lock: the single connection already
// excludes every other unit of work.
func (t *tx) LoadRoster(ctx context.Context) (models.Roster, error) {
	return loadRoster(ctx, t.q)
}

func (t *tx) InsertTask(ctx context.Context, personID string, task models.Task) error {
	tags, err := json.Marshal(nonNil(task.Tags))
	if err != nil {
		return err
	}

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
VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, ?)
`
	_, err = t.q.ExecContext(ctx, insertTaskQuery,
		task.ID,
		personID,
		task.Description,
		task.Duration,
		task.IsCompleted,
		task.ClientID,
		task.ClientName,
		string(tags),
		formatNullableTime(task.DueDate),
		formatTime(task.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (t *tx) SetTaskCompleted(ctx context.Context, personID, taskID string, completed bool) error {
	res, err := t.q.ExecContext(ctx,
		`UPDATE tasks SET is_completed = ? WHERE id = ? AND person_id = ?`,
		completed, taskID, personID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectOneRow(res)
}

func (t *tx) DeleteTask(ctx context.Context, personID, taskID string) error {
	res, err := t.q.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND person_id = ?`,
		taskID, personID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectOneRow(res)
}

func (t *tx) FindClient(ctx context.Context, clientID string) (models.Client, error) {
	var c models.Client
	err := t.q.QueryRowContext(ctx, `SELECT id, name FROM clients WHERE id = ?`, clientID).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("select client: %w", err)
	}
	return c, nil
}

func (t *tx) InsertClient(ctx context.Context, client models.Client) error {
	_, err := t.q.ExecContext(ctx,
		`INSERT INTO clients (id, name, created_at) VALUES (?, ?, ?)`,
		client.ID, client.Name, formatTime(time.Now()))
	if isConstraintViolation(err) {
		return storage.ErrClientAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (t *tx) InsertPerson(ctx context.Context, person models.Person, position int) error {
	clientIDs, err := json.Marshal(nonNil(person.ClientIDs))
	if err != nil {
		return err
	}

	_, err = t.q.ExecContext(ctx,
		`INSERT INTO people (id, name, client_ids, position) VALUES (?, ?, ?, ?)`,
		person.ID, person.Name, string(clientIDs), position)
	if isConstraintViolation(err) {
		return storage.ErrPersonAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (t *tx) Reset(ctx context.Context) error {
	for _, table := range []string{"tasks", "clients", "people"} {
		if _, err := t.q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func loadRoster(ctx context.Context, q querier) (models.Roster, error) {
	people, err := loadPeople(ctx, q)
	if err != nil {
		return nil, err
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
	rows, err := q.QueryContext(ctx, selectTasksQuery)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	var taskRows []storage.TaskRow
	for rows.Next() {
		var (
			row       storage.TaskRow
			tags      string
			dueDate   sql.NullString
			createdAt string
		)
		err = rows.Scan(
			&row.PersonID,
			&row.Task.ID,
			&row.Task.Description,
			&row.Task.Duration,
			&row.Task.IsCompleted,
			&row.Task.ClientID,
			&row.Task.ClientName,
			&tags,
			&dueDate,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}

		if err = json.Unmarshal([]byte(tags), &row.Task.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of task %s: %w", row.Task.ID, err)
		}
		if row.Task.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("decode created_at of task %s: %w", row.Task.ID, err)
		}
		if dueDate.Valid {
			due, err := time.Parse(time.RFC3339Nano, dueDate.String)
			if err != nil {
				return nil, fmt.Errorf("decode due_date of task %s: %w", row.Task.ID, err)
			}
			row.Task.DueDate = &due
		}

		taskRows = append(taskRows, row)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return storage.BuildRoster(people, taskRows), nil
}

func loadPeople(ctx context.Context, q querier) ([]models.Person, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, client_ids FROM people ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("select people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var (
			p         models.Person
			clientIDs string
		)
		if err = rows.Scan(&p.ID, &p.Name, &clientIDs); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		if err = json.Unmarshal([]byte(clientIDs), &p.ClientIDs); err != nil {
			return nil, fmt.Errorf("decode client ids of person %s: %w", p.ID, err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// Extended codes carry the primary code in the low byte.
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
