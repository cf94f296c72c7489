package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/storage"
)

type clientServiceImpl struct {
	logger zerolog.Logger
	store  storage.Store
}

func NewClientService(
	logger zerolog.Logger,
	store storage.Store,
) ClientService {
	return &clientServiceImpl{
		logger: logger,
		store:  store,
	}
}

func (s *clientServiceImpl) CreateClient(ctx context.Context, params CreateClientParams) (*models.Client, error) {
	client := models.Client{
		ID:   uuid.NewString(),
		Name: params.Name,
	}
	if err := models.ValidateStruct(client); err != nil {
		s.logger.Error().
			Err(err).
			Msg("invalid client")
		return nil, err
	}

	err := s.store.Atomically(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.InsertClient(ctx, client)
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("client_id", client.ID).
			Msg("failed to insert client")
		return nil, err
	}
	s.logger.Debug().
		Str("client_id", client.ID).
		Msg("inserted client")

	s.logger.Info().
		Str("client_id", client.ID).
		Str("name", client.Name).
		Msg("created client")
	return &client, nil
}

func (s *clientServiceImpl) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select clients")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(clients)).
		Msg("selected clients")

	return clients, nil
}

func (s *clientServiceImpl) EligibleClients(ctx context.Context, personID string) ([]models.Client, error) {
	roster, err := s.store.LoadRoster(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to load roster")
		return nil, err
	}

	i, ok := roster.Index(personID)
	if !ok {
		s.logger.Warn().
			Str("person_id", personID).
			Msg("person not found")
		return nil, ErrPersonNotFound
	}
	person := roster[i]

	clients, err := s.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]models.Client, 0, len(person.ClientIDs))
	for _, c := range clients {
		if person.CanTakeClient(c.ID) {
			eligible = append(eligible, c)
		}
	}
	s.logger.Debug().
		Str("person_id", personID).
		Int("count", len(eligible)).
		Msg("filtered eligible clients")

	return eligible, nil
}
