package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fercho159-aq/taskflow/internal/models"
)

const namespace = "taskflow"

const (
	ModeExplicit = "explicit"
	ModeAuto     = "auto"
)

// Recorder receives allocation events. Services depend on it so tests can
// pass Nop.
type Recorder interface {
	TaskCreated(mode string)
	TaskToggled(completed bool)
	TaskRemoved()
	ObserveRoster(roster models.Roster)
}

type Metrics struct {
	registry *prometheus.Registry

	tasksCreated *prometheus.CounterVec
	tasksToggled *prometheus.CounterVec
	tasksRemoved prometheus.Counter
	workload     *prometheus.GaugeVec
	activeTasks  *prometheus.GaugeVec

	mu       sync.Mutex
	observed map[string]string // person id -> name label
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tasksCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_created_total",
			Help:      "Tasks created, by assignment mode.",
		}, []string{"mode"}),
		tasksToggled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_toggled_total",
			Help:      "Completion toggles, by resulting state.",
		}, []string{"completed"}),
		tasksRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_removed_total",
			Help:      "Tasks removed from their owner.",
		}),
		workload: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "person_workload_hours",
			Help:      "Sum of durations of a person's incomplete tasks.",
		}, []string{"person_id", "person"}),
		activeTasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "person_active_tasks",
			Help:      "Number of a person's incomplete tasks.",
		}, []string{"person_id", "person"}),
		observed: make(map[string]string),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.tasksCreated,
		m.tasksToggled,
		m.tasksRemoved,
		m.workload,
		m.activeTasks,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) TaskCreated(mode string) {
	m.tasksCreated.WithLabelValues(mode).Inc()
}

func (m *Metrics) TaskToggled(completed bool) {
	label := "false"
	if completed {
		label = "true"
	}
	m.tasksToggled.WithLabelValues(label).Inc()
}

func (m *Metrics) TaskRemoved() {
	m.tasksRemoved.Inc()
}

// ObserveRoster sets the per-person gauges to the roster's values in place
// and drops the series of people no longer in it.
func (m *Metrics) ObserveRoster(roster models.Roster) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := make(map[string]string, len(roster))
	for _, p := range roster {
		current[p.ID] = p.Name
		m.workload.WithLabelValues(p.ID, p.Name).Set(p.TotalHours())
		m.activeTasks.WithLabelValues(p.ID, p.Name).Set(float64(p.ActiveTasks()))
	}

	for id, name := range m.observed {
		if n, ok := current[id]; ok && n == name {
			continue
		}
		m.workload.DeleteLabelValues(id, name)
		m.activeTasks.DeleteLabelValues(id, name)
	}
	m.observed = current
}

type nop struct{}

// Nop discards every event.
var Nop Recorder = nop{}

func (nop) TaskCreated(string)          {}
func (nop) TaskToggled(bool)            {}
func (nop) TaskRemoved()                {}
func (nop) ObserveRoster(models.Roster) {}
