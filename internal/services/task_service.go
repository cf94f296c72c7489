package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fercho159-aq/taskflow/internal/allocator"
	"github.com/fercho159-aq/taskflow/internal/metrics"
	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/storage"
)

type taskServiceImpl struct {
	logger   zerolog.Logger
	store    storage.Store
	dueDates DueDateService
	metrics  metrics.Recorder
	now      Clock
}

func NewTaskService(
	logger zerolog.Logger,
	store storage.Store,
	dueDates DueDateService,
	recorder metrics.Recorder,
	now Clock,
) TaskService {
	if recorder == nil {
		recorder = metrics.Nop
	}
	if now == nil {
		now = time.Now
	}
	return &taskServiceImpl{
		logger:   logger,
		store:    store,
		dueDates: dueDates,
		metrics:  recorder,
		now:      now,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*CreateTaskResult, error) {
	draft := models.TaskDraft{
		Description: params.Description,
		Duration:    params.Duration,
		PersonID:    params.PersonID,
		ClientID:    params.ClientID,
		Tags:        params.Tags,
	}
	if err := models.ValidateStruct(draft); err != nil {
		s.logger.Error().
			Err(err).
			Msg("invalid task draft")
		return nil, err
	}

	now := s.now()
	dueDate, err := s.dueDates.DueDate(draft.Duration, &now)
	if err != nil {
		return nil, err
	}

	taskID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task id")
		return nil, err
	}

	task := models.Task{
		ID:          taskID.String(),
		Description: draft.Description,
		Duration:    draft.Duration,
		ClientID:    draft.ClientID,
		Tags:        models.NormalizeTags(draft.Tags),
		DueDate:     &dueDate,
		CreatedAt:   now.UTC(),
	}

	var result CreateTaskResult
	err = s.store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
		current, err := tx.LoadRoster(ctx)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}

		person, err := allocator.SelectAssignee(current, draft.PersonID)
		if err != nil {
			return err
		}

		if task.ClientID != "" {
			client, err := tx.FindClient(ctx, task.ClientID)
			if errors.Is(err, storage.ErrNotFound) {
				return ErrClientNotFound
			}
			if err != nil {
				return fmt.Errorf("find client: %w", err)
			}
			task.ClientName = client.Name
		}

		roster, err := allocator.AddTask(current, person.ID, task)
		if err != nil {
			return err
		}

		i, _ := roster.Index(person.ID)
		result.Person = roster[i]
		result.Task = roster[i].Tasks[len(roster[i].Tasks)-1]

		if err := tx.InsertTask(ctx, person.ID, result.Task); err != nil {
			return err
		}
		s.metrics.ObserveRoster(roster)
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("person_id", draft.PersonID).
			Msg("failed to create task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", result.Task.ID).
		Str("person_id", result.Person.ID).
		Float64("total_hours", result.Person.TotalHours()).
		Msg("inserted task")

	mode := metrics.ModeAuto
	if draft.PersonID != "" {
		mode = metrics.ModeExplicit
	}
	s.metrics.TaskCreated(mode)

	s.logger.Info().
		Str("task_id", result.Task.ID).
		Str("person_id", result.Person.ID).
		Str("mode", mode).
		Msg("created task")
	return &result, nil
}

func (s *taskServiceImpl) ToggleTask(ctx context.Context, params TaskRefParams) (*models.Task, error) {
	var task models.Task
	err := s.store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
		current, err := tx.LoadRoster(ctx)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}

		roster, toggled, err := allocator.ToggleCompletion(current, params.PersonID, params.TaskID)
		if err != nil {
			return err
		}

		err = tx.SetTaskCompleted(ctx, params.PersonID, params.TaskID, toggled.IsCompleted)
		if err != nil {
			return err
		}
		task = toggled
		s.metrics.ObserveRoster(roster)
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Str("person_id", params.PersonID).
			Msg("failed to toggle task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Bool("is_completed", task.IsCompleted).
		Msg("updated task completion")

	s.metrics.TaskToggled(task.IsCompleted)

	s.logger.Info().
		Str("task_id", task.ID).
		Str("person_id", params.PersonID).
		Msg("toggled task")
	return &task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params TaskRefParams) error {
	err := s.store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
		current, err := tx.LoadRoster(ctx)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}

		roster, err := allocator.RemoveTask(current, params.PersonID, params.TaskID)
		if err != nil {
			return err
		}

		if err := tx.DeleteTask(ctx, params.PersonID, params.TaskID); err != nil {
			return err
		}
		s.metrics.ObserveRoster(roster)
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Str("person_id", params.PersonID).
			Msg("failed to delete task")
		return err
	}
	s.logger.Debug().
		Str("task_id", params.TaskID).
		Msg("deleted task")

	s.metrics.TaskRemoved()

	s.logger.Info().
		Str("task_id", params.TaskID).
		Str("person_id", params.PersonID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) GetRoster(ctx context.Context) (models.Roster, error) {
	roster, err := s.store.LoadRoster(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load roster")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(roster)).
		Msg("loaded roster")

	return allocator.ForDisplay(roster), nil
}

// GetWorkload reads the roster inside a unit of work so the gauges it
// refreshes are ordered with concurrent writes.
func (s *taskServiceImpl) GetWorkload(ctx context.Context) ([]WorkloadEntry, error) {
	var roster models.Roster
	err := s.store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
		current, err := tx.LoadRoster(ctx)
		if err != nil {
			return fmt.Errorf("load roster: %w", err)
		}
		roster = current
		s.metrics.ObserveRoster(roster)
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load roster")
		return nil, err
	}

	entries := make([]WorkloadEntry, len(roster))
	for i, p := range roster {
		entries[i] = WorkloadEntry{
			PersonID:    p.ID,
			Name:        p.Name,
			TotalHours:  p.TotalHours(),
			ActiveTasks: p.ActiveTasks(),
		}
	}

	return entries, nil
}
