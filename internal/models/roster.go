package models

// Roster is the ordered set of people at a point in time. Order is
// significant: it breaks ties when two people carry the same workload.
type Roster []Person

// Index returns the position of the person with the given id.
func (r Roster) Index(personID string) (int, bool) {
	for i := range r {
		if r[i].ID == personID {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy of the roster.
func (r Roster) Clone() Roster {
	if r == nil {
		return nil
	}
	out := make(Roster, len(r))
	for i, p := range r {
		out[i] = p.Clone()
	}
	return out
}

// FindTask returns the task and the index of its owner.
func (r Roster) FindTask(personID, taskID string) (Task, int, int, bool) {
	pi, ok := r.Index(personID)
	if !ok {
		return Task{}, -1, -1, false
	}
	for ti, t := range r[pi].Tasks {
		if t.ID == taskID {
			return t, pi, ti, true
		}
	}
	return Task{}, -1, -1, false
}
