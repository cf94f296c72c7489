package allocator

import (
	"cmp"
	"slices"

	"github.com/fercho159-aq/taskflow/internal/models"
)

// workloadTolerance absorbs float drift in summed durations, so 0.1+0.2 and
// 0.3 hours count as the same load.
const workloadTolerance = 1e-9

func lessLoaded(a, b models.Person) bool {
	return a.TotalHours() < b.TotalHours()-workloadTolerance
}

// compareForDisplay puts incomplete tasks first, then orders by description.
func compareForDisplay(a, b models.Task) int {
	if a.IsCompleted != b.IsCompleted {
		if a.IsCompleted {
			return 1
		}
		return -1
	}
	return cmp.Compare(a.Description, b.Description)
}

// SortForDisplay returns a sorted copy of tasks. The order is used for
// presentation only and never feeds back into allocation.
func SortForDisplay(tasks []models.Task) []models.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, compareForDisplay)
	return out
}

// ForDisplay returns a copy of the roster with each person's tasks sorted
// for presentation.
func ForDisplay(roster models.Roster) models.Roster {
	out := roster.Clone()
	for i := range out {
		out[i].Tasks = SortForDisplay(out[i].Tasks)
	}
	return out
}
