// Package tui provides the Bubble Tea calendar interface.
package tui

import (
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/quietrun/racecal/internal/plan"
)

const (
	minCellWidth = 9
	maxCellWidth = 18
)

// gridWeeks lays the plan span out as rows of seven dates, ordered by the
// plan's week-start convention.
func gridWeeks(p plan.RacePlan) [][]plan.Date {
	weeks := p.Weeks()
	out := make([][]plan.Date, 0, weeks)
	for w := 0; w < weeks; w++ {
		row := make([]plan.Date, 7)
		for i := 0; i < 7; i++ {
			row[i] = p.Start.AddDays(w*7 + i)
		}
		out = append(out, row)
	}
	return out
}

// weekdayHeaders returns the seven weekday labels starting from ws.
func weekdayHeaders(ws plan.WeekStart) []string {
	out := make([]string, 7)
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(ws) + i) % 7)
		out[i] = day.String()[:3]
	}
	return out
}

// cellWidth fits seven columns plus their separators into the given width.
func cellWidth(total int) int {
	w := (total - 8) / 7
	if w < minCellWidth {
		return minCellWidth
	}
	if w > maxCellWidth {
		return maxCellWidth
	}
	return w
}

// cellTitle truncates a workout title to the cell, leaving room for the
// ellipsis when it does not fit.
func cellTitle(w plan.Workout, width int) string {
	if w.Title == "" {
		return ""
	}
	return runewidth.Truncate(w.Title, width, "…")
}

// padTo right-pads s to the display width.
func padTo(s string, width int) string {
	return runewidth.FillRight(s, width)
}
