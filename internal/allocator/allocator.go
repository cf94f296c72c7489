// Package allocator decides who receives a new task and keeps each
// person's active workload consistent with their tasks.
//
// Every function is pure: the roster passed in is never mutated, a new
// roster is returned instead. Callers that persist the result must run
// the read-decide-write cycle atomically against their storage.
package allocator

import (
	"errors"

	"github.com/fercho159-aq/taskflow/internal/models"
)

var (
	ErrInvalidAssignee = errors.New("assignee not found in roster")
	ErrTaskNotFound    = errors.New("task not found")
	ErrEmptyRoster     = errors.New("roster is empty")
)

// SelectAssignee returns the explicitly requested person when explicitID is
// set, or else the person with the smallest active workload. Ties go to the
// earliest person in roster order.
func SelectAssignee(roster models.Roster, explicitID string) (models.Person, error) {
	if explicitID != "" {
		i, ok := roster.Index(explicitID)
		if !ok {
			return models.Person{}, ErrInvalidAssignee
		}
		return roster[i], nil
	}

	if len(roster) == 0 {
		return models.Person{}, ErrEmptyRoster
	}

	best := 0
	for i := 1; i < len(roster); i++ {
		if lessLoaded(roster[i], roster[best]) {
			best = i
		}
	}
	return roster[best], nil
}

// AddTask appends task, marked incomplete, to the person's tasks.
func AddTask(roster models.Roster, personID string, task models.Task) (models.Roster, error) {
	i, ok := roster.Index(personID)
	if !ok {
		return nil, ErrInvalidAssignee
	}

	task = task.Clone()
	task.IsCompleted = false

	return update(roster, i, func(p *models.Person) {
		p.Tasks = append(p.Tasks, task)
	}), nil
}

// ToggleCompletion flips the completion flag of one task and returns the
// updated roster together with the task as it is after the flip.
func ToggleCompletion(roster models.Roster, personID, taskID string) (models.Roster, models.Task, error) {
	_, pi, ti, ok := roster.FindTask(personID, taskID)
	if !ok {
		return nil, models.Task{}, ErrTaskNotFound
	}

	next := update(roster, pi, func(p *models.Person) {
		p.Tasks[ti].IsCompleted = !p.Tasks[ti].IsCompleted
	})
	return next, next[pi].Tasks[ti], nil
}

// RemoveTask drops one task from its owner.
func RemoveTask(roster models.Roster, personID, taskID string) (models.Roster, error) {
	_, pi, ti, ok := roster.FindTask(personID, taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}

	return update(roster, pi, func(p *models.Person) {
		p.Tasks = append(p.Tasks[:ti], p.Tasks[ti+1:]...)
	}), nil
}

// update is the only place a person's tasks change. It copies the roster,
// applies mutate to person i and re-derives that person's workload.
func update(roster models.Roster, i int, mutate func(p *models.Person)) models.Roster {
	next := roster.Clone()
	mutate(&next[i])
	next[i].Refresh()
	return next
}
