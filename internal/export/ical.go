// Package export serializes a finalized race plan to portable calendar and
// spreadsheet formats.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quietrun/racecal/internal/plan"
)

const icalDateLayout = "20060102"

// ToIcal renders the plan as an iCalendar document of all-day events in the
// selected units. The second return value is false when the plan has no
// workouts, meaning there is nothing to export.
func ToIcal(p plan.RacePlan, units plan.Units) (string, bool) {
	dates := p.Dates()
	if len(dates) == 0 {
		return "", false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var b strings.Builder
	writeIcalLine(&b, "BEGIN:VCALENDAR")
	writeIcalLine(&b, "VERSION:2.0")
	writeIcalLine(&b, "PRODID:-//racecal//training calendar//EN")
	writeIcalLine(&b, "CALSCALE:GREGORIAN")
	for _, d := range dates {
		w := p.Workouts[d]
		writeIcalLine(&b, "BEGIN:VEVENT")
		writeIcalLine(&b, "UID:"+d.Time().Format(icalDateLayout)+"-"+p.PlanID+"@racecal")
		writeIcalLine(&b, "DTSTART;VALUE=DATE:"+d.Time().Format(icalDateLayout))
		writeIcalLine(&b, "DTEND;VALUE=DATE:"+d.AddDays(1).Time().Format(icalDateLayout))
		writeIcalLine(&b, "SUMMARY:"+escapeIcalText(workoutSummary(w, p.Units, units)))
		if w.Description != "" {
			writeIcalLine(&b, "DESCRIPTION:"+escapeIcalText(w.Description))
		}
		writeIcalLine(&b, "TRANSP:TRANSPARENT")
		writeIcalLine(&b, "END:VEVENT")
	}
	writeIcalLine(&b, "END:VCALENDAR")
	return b.String(), true
}

func workoutSummary(w plan.Workout, from, to plan.Units) string {
	if w.Distance == 0 {
		return w.Title
	}
	return fmt.Sprintf("%s %s", w.Title, FormatDistance(w.Distance, from, to))
}

// FormatDistance converts a distance into the display units and renders it
// with its unit suffix.
func FormatDistance(v float64, from, to plan.Units) string {
	converted := plan.ConvertDistance(v, from, to)
	return fmt.Sprintf("%s %s", trimZeros(converted), string(to))
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

// iCalendar requires CRLF line endings.
func writeIcalLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escapeIcalText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
