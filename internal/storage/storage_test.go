package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fercho159-aq/taskflow/internal/models"
)

func TestBuildRoster(t *testing.T) {
	people := []models.Person{
		{ID: "1", Name: "Omar"},
		{ID: "2", Name: "Fernando"},
	}
	rows := []TaskRow{
		{PersonID: "2", Task: models.Task{ID: "a", Duration: 2}},
		{PersonID: "1", Task: models.Task{ID: "b", Duration: 1, IsCompleted: true}},
		{PersonID: "2", Task: models.Task{ID: "c", Duration: 0.5}},
		{PersonID: "9", Task: models.Task{ID: "orphan", Duration: 8}},
	}

	roster := BuildRoster(people, rows)

	require.Len(t, roster, 2)
	assert.InDelta(t, 0, roster[0].TotalHours(), 1e-9)
	assert.InDelta(t, 2.5, roster[1].TotalHours(), 1e-9)
	require.Len(t, roster[1].Tasks, 2)
	assert.Equal(t, "a", roster[1].Tasks[0].ID)
	assert.Equal(t, "c", roster[1].Tasks[1].ID)
}
