package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fercho159-aq/taskflow/internal/services"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// formatHours prints one decimal, rounding halves away from zero.
func formatHours(hours float64) string {
	return strconv.FormatFloat(math.Round(hours*10)/10, 'f', 1, 64)
}

func renderWorkload(entries []services.WorkloadEntry) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("PERSON", "HOURS", "ACTIVE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return valueStyle.Padding(0, 1)
		})

	for _, e := range entries {
		t.Row(e.Name, formatHours(e.TotalHours), strconv.Itoa(e.ActiveTasks))
	}
	return t.Render()
}

func renderDueDate(hours float64, start *time.Time, due time.Time) string {
	from := "now"
	if start != nil {
		from = start.Format(time.RFC3339)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("hours ")+valueStyle.Render(formatHours(hours)),
		labelStyle.Render("from  ")+valueStyle.Render(from),
		labelStyle.Render("due   ")+headerStyle.Render(due.Format(time.RFC3339)),
	)
}

func renderSeedResult(result *services.SeedResult) string {
	return headerStyle.Render("seeded") + " " + valueStyle.Render(fmt.Sprintf(
		"%d people, %d clients, %d tasks",
		result.People, result.Clients, result.Tasks,
	))
}
