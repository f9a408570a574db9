package export

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/quietrun/racecal/internal/plan"
)

// ToCsv renders the plan as week-grouped CSV rows in the selected units.
// The second return value is false when the plan has no workouts.
func ToCsv(p plan.RacePlan, units plan.Units, ws plan.WeekStart) (string, bool) {
	dates := p.Dates()
	if len(dates) == 0 {
		return "", false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var b strings.Builder
	w := csv.NewWriter(&b)
	header := []string{"Week", "Date", "Day", "Workout", fmt.Sprintf("Distance (%s)", string(units)), "Description"}
	rows := [][]string{header}
	for _, d := range dates {
		workout := p.Workouts[d]
		week := plan.StartOfWeek(d, ws).Sub(p.Start)/7 + 1
		distance := ""
		if workout.Distance != 0 {
			distance = trimZeros(plan.ConvertDistance(workout.Distance, p.Units, units))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", week),
			d.String(),
			d.Weekday().String(),
			workout.Title,
			distance,
			workout.Description,
		})
	}
	if err := w.WriteAll(rows); err != nil {
		// strings.Builder writes cannot fail; WriteAll only surfaces
		// writer errors.
		return "", false
	}
	return b.String(), true
}
