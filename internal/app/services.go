package app

import (
	"time"

	"github.com/fercho159-aq/taskflow/internal/metrics"
	"github.com/fercho159-aq/taskflow/internal/services"
)

// Services bundles the services built on the global storage.
type Services struct {
	Tasks    services.TaskService
	Clients  services.ClientService
	DueDates services.DueDateService
	Seed     services.SeedService
}

var globalMetrics = metrics.New()

// MustBuildServices wires every service to the global storage, metrics and
// the configured calendar.
func MustBuildServices() Services {
	calendar, location := MustLoadCalendar()
	now := services.Clock(time.Now)

	dueDates := services.NewDueDateService(componentLogger("due_dates"), calendar, location, now)
	return Services{
		Tasks:    services.NewTaskService(componentLogger("tasks"), globalStore, dueDates, globalMetrics, now),
		Clients:  services.NewClientService(componentLogger("clients"), globalStore),
		DueDates: dueDates,
		Seed:     services.NewSeedService(componentLogger("seed"), globalStore, now),
	}
}
