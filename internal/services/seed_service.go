package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fercho159-aq/taskflow/internal/config"
	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/storage"
)

type seedServiceImpl struct {
	logger zerolog.Logger
	store  storage.Store
	now    Clock
}

func NewSeedService(
	logger zerolog.Logger,
	store storage.Store,
	now Clock,
) SeedService {
	if now == nil {
		now = time.Now
	}
	return &seedServiceImpl{
		logger: logger,
		store:  store,
		now:    now,
	}
}

func (s *seedServiceImpl) Seed(ctx context.Context, roster *config.Roster) (*SeedResult, error) {
	tasks, err := s.assignSeedTasks(roster)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("invalid seed tasks")
		return nil, err
	}

	err = s.store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.Reset(ctx); err != nil {
			return err
		}

		for i, p := range roster.People {
			person := models.NewPerson(p.ID, p.Name, p.ClientIDs, nil)
			if err := tx.InsertPerson(ctx, person, i); err != nil {
				return err
			}
		}

		for _, c := range roster.Clients {
			client := models.Client{ID: c.ID, Name: c.Name}
			if err := models.ValidateStruct(client); err != nil {
				return err
			}
			if err := tx.InsertClient(ctx, client); err != nil {
				return err
			}
		}

		for _, t := range tasks {
			if err := tx.InsertTask(ctx, t.PersonID, t.Task); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to seed storage")
		return nil, err
	}

	result := &SeedResult{
		People:  len(roster.People),
		Clients: len(roster.Clients),
		Tasks:   len(tasks),
	}
	s.logger.Info().
		Int("people", result.People).
		Int("clients", result.Clients).
		Int("tasks", result.Tasks).
		Msg("seeded storage")
	return result, nil
}

// assignSeedTasks builds the stored form of every seed task. A task without
// an assignee goes to the person at its index modulo the roster size.
func (s *seedServiceImpl) assignSeedTasks(roster *config.Roster) ([]storage.TaskRow, error) {
	if len(roster.People) == 0 {
		return nil, ErrEmptyRoster
	}

	createdAt := s.now().UTC()
	rows := make([]storage.TaskRow, 0, len(roster.Tasks))
	for i, t := range roster.Tasks {
		draft := models.TaskDraft{
			Description: t.Description,
			Duration:    t.Duration,
			PersonID:    t.PersonID,
			ClientID:    t.ClientID,
			Tags:        t.Tags,
		}
		if err := models.ValidateStruct(draft); err != nil {
			return nil, fmt.Errorf("seed task %d: %w", i, err)
		}

		personID := t.PersonID
		if personID == "" {
			personID = roster.People[i%len(roster.People)].ID
		}

		id := t.ID
		if id == "" {
			generated, err := uuid.NewV7()
			if err != nil {
				return nil, err
			}
			id = generated.String()
		}

		rows = append(rows, storage.TaskRow{
			PersonID: personID,
			Task: models.Task{
				ID:          id,
				Description: t.Description,
				Duration:    t.Duration,
				IsCompleted: t.IsCompleted,
				ClientID:    t.ClientID,
				ClientName:  roster.ClientName(t.ClientID),
				Tags:        models.NormalizeTags(t.Tags),
				CreatedAt:   createdAt,
			},
		})
	}
	return rows, nil
}
