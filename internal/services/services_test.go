package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fercho159-aq/taskflow/internal/config"
	"github.com/fercho159-aq/taskflow/internal/duedate"
	"github.com/fercho159-aq/taskflow/internal/models"
	"github.com/fercho159-aq/taskflow/internal/storage/sqlite"
)

var monday10 = time.Date(2024, time.June, 10, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return monday10 }

type recorderStub struct {
	created  map[string]int
	toggled  int
	removed  int
	observed int
	last     models.Roster
}

func (r *recorderStub) TaskCreated(mode string) { r.created[mode]++ }
func (r *recorderStub) TaskToggled(bool)        { r.toggled++ }
func (r *recorderStub) TaskRemoved()            { r.removed++ }

func (r *recorderStub) ObserveRoster(roster models.Roster) {
	r.observed++
	r.last = roster
}

type fixture struct {
	tasks    TaskService
	clients  ClientService
	seed     SeedService
	dueDates DueDateService
	recorder *recorderStub
}

func testRoster() *config.Roster {
	return &config.Roster{
		People: []config.RosterPerson{
			{ID: "1", Name: "Omar", ClientIDs: []string{"client-1", "client-2"}},
			{ID: "2", Name: "Fernando", ClientIDs: []string{"client-3"}},
			{ID: "3", Name: "Julio", ClientIDs: []string{"client-1", "client-4"}},
		},
		Clients: []config.RosterClient{
			{ID: "client-1", Name: "Acme"},
			{ID: "client-2", Name: "Globex"},
			{ID: "client-3", Name: "Initech"},
			{ID: "client-4", Name: "Umbrella"},
		},
	}
}

func newFixture(t *testing.T, roster *config.Roster) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	logger := zerolog.Nop()
	recorder := &recorderStub{created: map[string]int{}}
	dueDates := NewDueDateService(logger, duedate.Standard, time.UTC, fixedClock)

	f := &fixture{
		tasks:    NewTaskService(logger, store, dueDates, recorder, fixedClock),
		clients:  NewClientService(logger, store),
		seed:     NewSeedService(logger, store, fixedClock),
		dueDates: dueDates,
		recorder: recorder,
	}

	_, err = f.seed.Seed(ctx, roster)
	require.NoError(t, err)
	return f
}

func TestTaskService_CreateTask_AutoAssignsLeastLoaded(t *testing.T) {
	f := newFixture(t, testRoster())
	ctx := context.Background()

	first, err := f.tasks.CreateTask(ctx, CreateTaskParams{Description: "Landing", Duration: 3})
	require.NoError(t, err)
	assert.Equal(t, "1", first.Person.ID)
	assert.InDelta(t, 3, first.Person.TotalHours(), 1e-9)
	assert.False(t, first.Task.IsCompleted)
	assert.NotEmpty(t, first.Task.ID)
	require.NotNil(t, first.Task.DueDate)
	assert.True(t, time.Date(2024, time.June, 10, 13, 0, 0, 0, time.UTC).Equal(*first.Task.DueDate))

	second, err := f.tasks.CreateTask(ctx, CreateTaskParams{Description: "Audit", Duration: 1})
	require.NoError(t, err)
	assert.Equal(t, "2", second.Person.ID)

	third, err := f.tasks.CreateTask(ctx, CreateTaskParams{Description: "Report", Duration: 1})
	require.NoError(t, err)
	assert.Equal(t, "3", third.Person.ID)

	fourth, err := f.tasks.CreateTask(ctx, CreateTaskParams{Description: "Follow-up", Duration: 1})
	require.NoError(t, err)
	assert.Equal(t, "2", fourth.Person.ID)

	assert.Equal(t, 4, f.recorder.created["auto"])
	assert.Len(t, f.recorder.last, 3)
}

func TestTaskService_CreateTask_Explicit(t *testing.T) {
	f := newFixture(t, testRoster())
	ctx := context.Background()

	res, err := f.tasks.CreateTask(ctx, CreateTaskParams{
		Description: "Onboarding",
		Duration:    10,
		PersonID:    "3",
		ClientID:    "client-3",
		Tags:        []string{models.TagNewClient, models.TagNewClient},
	})
	require.NoError(t, err)

	assert.Equal(t, "3", res.Person.ID)
	assert.Equal(t, "Initech", res.Task.ClientName)
	assert.Equal(t, []string{models.TagNewClient}, res.Task.Tags)
	assert.True(t, time.Date(2024, time.June, 11, 12, 0, 0, 0, time.UTC).Equal(*res.Task.DueDate))
	assert.Equal(t, 1, f.recorder.created["explicit"])
}

func TestTaskService_CreateTask_Errors(t *testing.T) {
	f := newFixture(t, testRoster())
	ctx := context.Background()

	tests := []struct {
		name    string
		params  CreateTaskParams
		wantErr error
	}{
		{
			name:    "unknown explicit assignee",
			params:  CreateTaskParams{Description: "x", Duration: 1, PersonID: "42"},
			wantErr: ErrInvalidAssignee,
		},
		{
			name:    "unknown client",
			params:  CreateTaskParams{Description: "x", Duration: 1, ClientID: "client-9"},
			wantErr: ErrClientNotFound,
		},
		{
			name:    "empty description",
			params:  CreateTaskParams{Duration: 1},
			wantErr: ErrValidation,
		},
		{
			name:    "duration too small",
			params:  CreateTaskParams{Description: "x", Duration: 0.01},
			wantErr: ErrValidation,
		},
		{
			name:    "unknown tag",
			params:  CreateTaskParams{Description: "x", Duration: 1, Tags: []string{"urgent"}},
			wantErr: ErrValidation,
		},
		{
			name:    "duration beyond calendar range",
			params:  CreateTaskParams{Description: "x", Duration: 1e7},
			wantErr: ErrDurationTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks.CreateTask(ctx, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	roster, err := f.tasks.GetRoster(ctx)
	require.NoError(t, err)
	for _, p := range roster {
		assert.Empty(t, p.Tasks, "failed creations must not store tasks")
	}
}

func TestSeedService_EmptyRoster(t *testing.T) {
	f := newFixture(t, testRoster())
	ctx := context.Background()

	_, err := f.seed.Seed(ctx, &config.Roster{})
	assert.ErrorIs(t, err, ErrEmptyRoster)
}

func TestTaskService_ToggleAndDelete(t *testing.T) {
	f := newFixture(t, testRoster())
	ctx := context.Background()

	created, err := f.tasks.CreateTask(ctx, CreateTaskParams{Description: "Landing", Duration: 2, PersonID: "2"})
	require.NoError(t, err)
	ref := TaskRefParams{PersonID: "2", TaskID: created.Task.ID}

	task, err := f.tasks.ToggleTask(ctx, ref)
	require.NoError(t, err)
	assert.True(t, task.IsCompleted)

	workload, err := f.tasks.GetWorkload(ctx)
	require.NoError(t, err)
	assert.Equal(t, WorkloadEntry{PersonID: "2", Name: "Fernando", TotalHours: 0, ActiveTasks: 0}, workload[1])

	task, err = f.tasks.ToggleTask(ctx, ref)
	require.NoError(t, err)
	assert.False(t, task.IsCompleted)

	workload, err = f.tasks.GetWorkload(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2, workload[1].TotalHours, 1e-9)
	assert.Equal(t, 1, workload[1].ActiveTasks)

	_, err = f.tasks.ToggleTask(ctx, TaskRefParams{PersonID: "1", TaskID: created.Task.ID})
	assert.ErrorIs(t, err, ErrTaskNotFound)

	require.NoError(t, f.tasks.DeleteTask(ctx, ref))
	assert.ErrorIs(t, f.tasks.DeleteTask(ctx, ref), ErrTaskNotFound)

	workload, err = f.tasks.GetWorkload(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0, workload[1].TotalHours, 1e-9)

	assert.Equal(t, 2, f.recorder.toggled)
	assert.Equal(t, 1, f.recorder.removed)
}

func TestTaskService_ObservesRosterOnlyAfterWrites(t *testing.T) {
	f := newFixture(t, testRoster())
	ctx := context.Background()

	_, err := f.tasks.CreateTask(ctx, CreateTaskParams{Description: "x", Duration: 1, ClientID: "client-9"})
	require.ErrorIs(t, err, ErrClientNotFound)
	assert.Zero(t, f.recorder.observed)

	created, err := f.tasks.CreateTask(ctx, CreateTaskParams{Description: "Landing", Duration: 2, PersonID: "2"})
	require.NoError(t, err)
	require.Equal(t, 1, f.recorder.observed)
	assert.InDelta(t, 2, f.recorder.last[1].TotalHours(), 1e-9)

	ref := TaskRefParams{PersonID: "2", TaskID: created.Task.ID}
	_, err = f.tasks.ToggleTask(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 2, f.recorder.observed)
	assert.InDelta(t, 0, f.recorder.last[1].TotalHours(), 1e-9)

	_, err = f.tasks.ToggleTask(ctx, TaskRefParams{PersonID: "1", TaskID: created.Task.ID})
	require.ErrorIs(t, err, ErrTaskNotFound)
	assert.Equal(t, 2, f.recorder.observed)

	require.NoError(t, f.tasks.DeleteTask(ctx, ref))
	assert.Equal(t, 3, f.recorder.observed)
	assert.Empty(t, f.recorder.last[1].Tasks)
}

func TestTaskService_GetRoster_DisplayOrder(t *testing.T) {
	f := newFixture(t, testRoster())
	ctx := context.Background()

	var ids []string
	for _, desc := range []string{"charlie", "alpha", "bravo"} {
		res, err := f.tasks.CreateTask(ctx, CreateTaskParams{Description: desc, Duration: 1, PersonID: "1"})
		require.NoError(t, err)
		ids = append(ids, res.Task.ID)
	}
	_, err := f.tasks.ToggleTask(ctx, TaskRefParams{PersonID: "1", TaskID: ids[1]})
	require.NoError(t, err)

	roster, err := f.tasks.GetRoster(ctx)
	require.NoError(t, err)

	got := make([]string, 0, 3)
	for _, task := range roster[0].Tasks {
		got = append(got, task.Description)
	}
	assert.Equal(t, []string{"bravo", "charlie", "alpha"}, got)
	assert.InDelta(t, 2, roster[0].TotalHours(), 1e-9)
}

func TestSeedService_DistributesRoundRobin(t *testing.T) {
	roster := testRoster()
	roster.Tasks = []config.RosterTask{
		{Description: "a", Duration: 1, ClientID: "client-1"},
		{Description: "b", Duration: 2},
		{Description: "c", Duration: 3, IsCompleted: true},
		{Description: "d", Duration: 4},
		{Description: "e", Duration: 5, PersonID: "3"},
	}
	f := newFixture(t, roster)

	workload, err := f.tasks.GetWorkload(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 5, workload[0].TotalHours, 1e-9)
	assert.InDelta(t, 2, workload[1].TotalHours, 1e-9)
	assert.InDelta(t, 5, workload[2].TotalHours, 1e-9)
	assert.Equal(t, 1, workload[2].ActiveTasks)

	people, err := f.tasks.GetRoster(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", people[0].Tasks[0].ClientName)
	assert.Nil(t, people[0].Tasks[0].DueDate)
}

func TestSeedService_RejectsInvalidTask(t *testing.T) {
	roster := testRoster()
	f := newFixture(t, roster)

	roster.Tasks = []config.RosterTask{{Description: "", Duration: 1}}
	_, err := f.seed.Seed(context.Background(), roster)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClientService(t *testing.T) {
	f := newFixture(t, testRoster())
	ctx := context.Background()

	created, err := f.clients.CreateClient(ctx, CreateClientParams{Name: "Acme"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Acme", created.Name)

	_, err = f.clients.CreateClient(ctx, CreateClientParams{Name: ""})
	assert.ErrorIs(t, err, ErrValidation)

	clients, err := f.clients.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 5)

	eligible, err := f.clients.EligibleClients(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []models.Client{{ID: "client-1", Name: "Acme"}, {ID: "client-4", Name: "Umbrella"}}, eligible)

	_, err = f.clients.EligibleClients(ctx, "42")
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestDueDateService(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	svc := NewDueDateService(zerolog.Nop(), duedate.Standard, loc, func() time.Time {
		// 16:00 UTC is 10:00 in loc.
		return time.Date(2024, time.June, 10, 16, 0, 0, 0, time.UTC)
	})

	due, err := svc.DueDate(3, nil)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.June, 10, 13, 0, 0, 0, loc).Equal(due))
	assert.Equal(t, loc, due.Location())

	start := time.Date(2024, time.June, 14, 16, 30, 0, 0, loc)
	due, err = svc.DueDate(1, &start)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.June, 17, 9, 30, 0, 0, loc).Equal(due))

	_, err = svc.DueDate(-1, nil)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}
