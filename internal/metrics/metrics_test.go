package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fercho159-aq/taskflow/internal/models"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.TaskCreated(ModeAuto)
	m.TaskCreated(ModeAuto)
	m.TaskCreated(ModeExplicit)
	m.TaskToggled(true)
	m.TaskRemoved()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.tasksCreated.WithLabelValues(ModeAuto)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksCreated.WithLabelValues(ModeExplicit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksToggled.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tasksRemoved))
}

func TestMetrics_ObserveRoster(t *testing.T) {
	m := New()

	m.ObserveRoster(models.Roster{
		models.NewPerson("1", "Omar", nil, []models.Task{{ID: "a", Duration: 2.5}, {ID: "b", Duration: 1, IsCompleted: true}}),
		models.NewPerson("2", "Fernando", nil, nil),
	})

	assert.Equal(t, 2.5, testutil.ToFloat64(m.workload.WithLabelValues("1", "Omar")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeTasks.WithLabelValues("1", "Omar")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.workload.WithLabelValues("2", "Fernando")))

	m.ObserveRoster(models.Roster{models.NewPerson("2", "Fernando", nil, nil)})
	assert.Equal(t, 1, testutil.CollectAndCount(m.workload))
}

func TestMetrics_ObserveRoster_UpdatesInPlace(t *testing.T) {
	m := New()

	m.ObserveRoster(models.Roster{
		models.NewPerson("1", "Omar", nil, []models.Task{{ID: "a", Duration: 2}}),
		models.NewPerson("2", "Fernando", nil, nil),
	})
	m.ObserveRoster(models.Roster{
		models.NewPerson("1", "Omar", nil, []models.Task{{ID: "a", Duration: 2}, {ID: "b", Duration: 1}}),
		models.NewPerson("2", "Fer", nil, nil),
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.workload.WithLabelValues("1", "Omar")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.activeTasks.WithLabelValues("1", "Omar")))
	assert.False(t, m.workload.DeleteLabelValues("2", "Fernando"))
	assert.Equal(t, 2, testutil.CollectAndCount(m.workload))
	assert.Equal(t, 2, testutil.CollectAndCount(m.activeTasks))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.TaskCreated(ModeAuto)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `taskflow_tasks_created_total{mode="auto"} 1`))
}
