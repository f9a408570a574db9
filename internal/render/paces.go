package render

import (
	"sort"

	"github.com/quietrun/racecal/internal/paces"
)

// PaceTable renders a pace entry as name/target rows, sorted by pace name.
func PaceTable(e paces.Entry) []string {
	if len(e.Paces) == 0 {
		return []string{"(no pace data)"}
	}
	names := make([]string, 0, len(e.Paces))
	for name := range e.Paces {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := []string{"Pace", "Target"}
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, paces.FormatPace(e.Paces[name])})
	}
	return formatTable(headers, rows, nil)
}
