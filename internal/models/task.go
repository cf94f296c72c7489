package models

import (
	"encoding/json"
	"time"
)

const (
	TagNewClient   = "new-client"
	TagMaintenance = "maintenance"
)

// MinDuration is the smallest task duration, in hours, accepted at creation.
const MinDuration = 0.1

type Task struct {
	ID          string
	Description string
	Duration    float64
	IsCompleted bool
	ClientID    string
	ClientName  string
	Tags        []string
	DueDate     *time.Time
	CreatedAt   time.Time
}

// TaskDraft is the caller-supplied part of a new task.
type TaskDraft struct {
	Description string   `validate:"required"`
	Duration    float64  `validate:"gte=0.1"`
	PersonID    string   `validate:"omitempty,max=64"`
	ClientID    string   `validate:"omitempty,max=64"`
	Tags        []string `validate:"dive,oneof=new-client maintenance"`
}

// NormalizeTags drops duplicate tags keeping the first occurrence.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

type Client struct {
	ID   string `validate:"required,max=64"`
	Name string `validate:"required,max=255"`
}

type Person struct {
	ID        string
	Name      string
	ClientIDs []string
	Tasks     []Task

	totalHours float64
}

// NewPerson builds a person and derives its active workload from tasks.
func NewPerson(id, name string, clientIDs []string, tasks []Task) Person {
	p := Person{
		ID:        id,
		Name:      name,
		ClientIDs: clientIDs,
		Tasks:     tasks,
	}
	p.Refresh()
	return p
}

// TotalHours is the sum of durations of the person's incomplete tasks.
func (p Person) TotalHours() float64 {
	return p.totalHours
}

// ActiveTasks counts incomplete tasks.
func (p Person) ActiveTasks() int {
	n := 0
	for _, t := range p.Tasks {
		if !t.IsCompleted {
			n++
		}
	}
	return n
}

// Refresh recomputes every derived field of the person. Any code that
// changes Tasks must call it before the person is observed again.
func (p *Person) Refresh() {
	var total float64
	for _, t := range p.Tasks {
		if !t.IsCompleted {
			total += t.Duration
		}
	}
	p.totalHours = total
}

// CanTakeClient reports whether clientID is in the person's client list.
func (p Person) CanTakeClient(clientID string) bool {
	for _, id := range p.ClientIDs {
		if id == clientID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy that shares no slices with p.
func (p Person) Clone() Person {
	c := p
	c.ClientIDs = append([]string(nil), p.ClientIDs...)
	c.Tasks = make([]Task, len(p.Tasks))
	for i, t := range p.Tasks {
		c.Tasks[i] = t.Clone()
	}
	return c
}

func (t Task) Clone() Task {
	c := t
	c.Tags = append([]string(nil), t.Tags...)
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return c
}

// personJSON exposes the derived workload alongside the stored fields.
type personJSON struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ClientIDs  []string `json:"client_ids"`
	Tasks      []Task   `json:"tasks"`
	TotalHours float64  `json:"total_hours"`
}

func (p Person) MarshalJSON() ([]byte, error) {
	clientIDs := p.ClientIDs
	if clientIDs == nil {
		clientIDs = []string{}
	}
	tasks := p.Tasks
	if tasks == nil {
		tasks = []Task{}
	}
	return json.Marshal(personJSON{
		ID:         p.ID,
		Name:       p.Name,
		ClientIDs:  clientIDs,
		Tasks:      tasks,
		TotalHours: p.totalHours,
	})
}

type taskJSON struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Duration    float64    `json:"duration"`
	IsCompleted bool       `json:"is_completed"`
	ClientID    string     `json:"client_id,omitempty"`
	ClientName  string     `json:"client_name,omitempty"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(taskJSON{
		ID:          t.ID,
		Description: t.Description,
		Duration:    t.Duration,
		IsCompleted: t.IsCompleted,
		ClientID:    t.ClientID,
		ClientName:  t.ClientName,
		Tags:        tags,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
	})
}

func (c Client) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{c.ID, c.Name})
}
