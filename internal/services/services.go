package services

import (
	"context"
	"errors"
	"time"

	"github.com/fercho159-aq/taskflow/internal/allocator"
	"github.com/fercho159-aq/taskflow/internal/config"
	"github.com/fercho159-aq/taskflow/internal/duedate"
	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/storage"
)

var (
	ErrInvalidAssignee     = allocator.ErrInvalidAssignee
	ErrTaskNotFound        = allocator.ErrTaskNotFound
	ErrEmptyRoster         = allocator.ErrEmptyRoster
	ErrInvalidDuration     = duedate.ErrInvalidDuration
	ErrDurationTooLarge    = duedate.ErrDurationTooLarge
	ErrValidation          = models.ErrValidation
	ErrClientAlreadyExists = storage.ErrClientAlreadyExists
	ErrClientNotFound      = errors.New("client not found")
	ErrPersonNotFound      = errors.New("person not found")
)

type TaskService interface {
	// CreateTask validates the draft, picks the assignee and stores the
	// new task with its due date, all in one unit of work.
	//
	// The explicit PersonID, when set, always wins. It returns
	// ErrInvalidAssignee if no person has that id, ErrClientNotFound if
	// ClientID does not name an existing client, or an error wrapping
	// ErrValidation if the draft is malformed.
	CreateTask(ctx context.Context, params CreateTaskParams) (*CreateTaskResult, error)

	// ToggleTask flips the completion flag of a task and returns the task
	// as stored afterwards.
	//
	// It returns ErrTaskNotFound if the person doesn't own the task.
	ToggleTask(ctx context.Context, params TaskRefParams) (*models.Task, error)

	// DeleteTask removes a task from its owner.
	//
	// It returns ErrTaskNotFound if the person doesn't own the task.
	DeleteTask(ctx context.Context, params TaskRefParams) error

	// GetRoster returns every person with tasks in display order.
	GetRoster(ctx context.Context) (models.Roster, error)

	GetWorkload(ctx context.Context) ([]WorkloadEntry, error)
}

type ClientService interface {
	// CreateClient stores a client under a freshly generated id.
	CreateClient(ctx context.Context, params CreateClientParams) (*models.Client, error)

	ListClients(ctx context.Context) ([]models.Client, error)

	// EligibleClients returns the clients the person may be assigned work
	// for, in client list order.
	//
	// It returns ErrPersonNotFound if no person has the given id.
	EligibleClients(ctx context.Context, personID string) ([]models.Client, error)
}

type DueDateService interface {
	// DueDate spends hours of work on the working calendar starting at
	// start, or at the current time when start is nil.
	DueDate(hours float64, start *time.Time) (time.Time, error)
}

type SeedService interface {
	// Seed replaces people, clients and tasks with the roster contents.
	// Tasks without an assignee are dealt out over the people in turn.
	Seed(ctx context.Context, roster *config.Roster) (*SeedResult, error)
}

type CreateTaskParams struct {
	Description string
	Duration    float64
	PersonID    string
	ClientID    string
	Tags        []string
}

type CreateTaskResult struct {
	Person models.Person
	Task   models.Task
}

type TaskRefParams struct {
	PersonID string
	TaskID   string
}

type CreateClientParams struct {
	Name string
}

type WorkloadEntry struct {
	PersonID    string  `json:"person_id"`
	Name        string  `json:"name"`
	TotalHours  float64 `json:"total_hours"`
	ActiveTasks int     `json:"active_tasks"`
}

type SeedResult struct {
	People  int `json:"people"`
	Clients int `json:"clients"`
	Tasks   int `json:"tasks"`
}

// Clock reports the current instant. Services convert it into the
// calendar's location.
type Clock func() time.Time
