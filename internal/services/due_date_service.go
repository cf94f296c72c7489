package services

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/fercho159-aq/taskflow/internal/duedate"
)

type dueDateServiceImpl struct {
	logger   zerolog.Logger
	calendar duedate.Calendar
	location *time.Location
	now      Clock
}

func NewDueDateService(
	logger zerolog.Logger,
	calendar duedate.Calendar,
	location *time.Location,
	now Clock,
) DueDateService {
	if location == nil {
		location = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &dueDateServiceImpl{
		logger:   logger,
		calendar: calendar,
		location: location,
		now:      now,
	}
}

func (s *dueDateServiceImpl) DueDate(hours float64, start *time.Time) (time.Time, error) {
	at := s.now()
	if start != nil {
		at = *start
	}
	at = at.In(s.location)

	due, err := s.calendar.DueDate(hours, at)
	if err != nil {
		s.logger.Error().
			Err(err).
			Float64("hours", hours).
			Time("start", at).
			Msg("failed to calculate due date")
		return time.Time{}, err
	}
	s.logger.Debug().
		Float64("hours", hours).
		Time("start", at).
		Time("due_date", due).
		Msg("calculated due date")

	return due, nil
}
