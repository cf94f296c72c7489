package app

import (
	"time"
	_ "time/tzdata"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fercho159-aq/taskflow/internal/config"
	"github.com/fercho159-aq/taskflow/internal/duedate"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("read env")

	config.SetGlobal(cfg)
}

// MustReadRoster loads the seed roster from path, or from the configured
// roster file when path is empty.
func MustReadRoster(path string) *config.Roster {
	if path == "" {
		path = config.Global().RosterFile
	}

	roster, err := config.NewRosterReader(path).Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("path", path).
			Msg("failed to read roster")
		panic(err)
	}
	globalLogger.Info().
		Str("path", path).
		Int("people", len(roster.People)).
		Msg("read roster")

	return roster
}

// MustLoadCalendar returns the working calendar and the location due dates
// are computed in.
func MustLoadCalendar() (duedate.Calendar, *time.Location) {
	cfg := config.Global().Calendar

	calendar := duedate.Calendar{
		StartHour: cfg.StartHour,
		EndHour:   cfg.EndHour,
	}
	if err := calendar.Validate(); err != nil {
		globalLogger.Error().
			Err(err).
			Msg("invalid working calendar")
		panic(err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("timezone", cfg.Timezone).
			Msg("failed to load calendar timezone")
		panic(err)
	}

	return calendar, location
}
