package render

import (
	"fmt"
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/quietrun/racecal/internal/export"
	"github.com/quietrun/racecal/internal/plan"
)

const minTitleWidth = 12

// Calendar renders the plan as a week/date table fitted to the terminal
// width. Workout titles are truncated rather than wrapped.
func Calendar(p plan.RacePlan, units plan.Units, width int) []string {
	dates := p.Dates()
	if len(dates) == 0 {
		return []string{"(no workouts scheduled)"}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// Everything except the workout column is narrow; give the title the
	// rest of the line.
	titleWidth := width - 40
	if titleWidth < minTitleWidth {
		titleWidth = minTitleWidth
	}

	headers := []string{"Week", "Date", "Day", "Workout", "Distance"}
	rows := make([][]string, 0, len(dates))
	for _, d := range dates {
		w := p.Workouts[d]
		distance := ""
		if w.Distance != 0 {
			distance = export.FormatDistance(w.Distance, p.Units, units)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", weekOf(p, d)),
			d.String(),
			d.Weekday().String()[:3],
			runewidth.Truncate(w.Title, titleWidth, "…"),
			distance,
		})
	}
	return formatTable(headers, rows, map[int]bool{0: true, 4: true})
}

// WeekSummary aggregates one plan week.
type WeekSummary struct {
	Week     int
	Start    plan.Date
	Workouts int
	Distance float64
}

// WeekSummaries aggregates workouts and distance per plan week, in the
// selected units.
func WeekSummaries(p plan.RacePlan, units plan.Units) []WeekSummary {
	weeks := p.Weeks()
	if weeks == 0 {
		return nil
	}
	out := make([]WeekSummary, weeks)
	for i := range out {
		out[i] = WeekSummary{Week: i + 1, Start: p.Start.AddDays(i * 7)}
	}
	for d, w := range p.Workouts {
		i := weekOf(p, d) - 1
		if i < 0 || i >= weeks {
			continue
		}
		out[i].Workouts++
		out[i].Distance += plan.ConvertDistance(w.Distance, p.Units, units)
	}
	return out
}

// SummaryTable renders per-week totals.
func SummaryTable(p plan.RacePlan, units plan.Units) []string {
	summaries := WeekSummaries(p, units)
	if len(summaries) == 0 {
		return []string{"(no workouts scheduled)"}
	}
	headers := []string{"Week", "Starts", "Workouts", fmt.Sprintf("Distance (%s)", string(units))}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", s.Week),
			s.Start.String(),
			fmt.Sprintf("%d", s.Workouts),
			fmt.Sprintf("%.1f", s.Distance),
		})
	}
	return formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true})
}

func weekOf(p plan.RacePlan, d plan.Date) int {
	return d.Sub(p.Start)/7 + 1
}
