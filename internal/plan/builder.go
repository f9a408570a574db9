package plan

// Build materializes a template into a dated RacePlan anchored to endDate.
//
// The plan occupies whole weeks: the last day is the week-aligned boundary at
// or after endDate, and the template's day offsets count forward from the
// start of the earliest week that fits the whole schedule. Build is a pure
// function; identical inputs produce structurally equal plans.
func Build(tpl PlanTemplate, endDate Date, ws WeekStart) RacePlan {
	boundary := EndOfWeek(endDate, ws)
	weeks := tpl.Weeks()

	p := RacePlan{
		PlanID:       tpl.ID,
		Units:        tpl.Units,
		End:          boundary,
		EndDate:      endDate,
		WeekStartsOn: ws,
		Workouts:     make(map[Date]Workout, len(tpl.Schedule)),
	}
	if weeks == 0 {
		// Empty template: an empty plan anchored at the boundary.
		p.Start = boundary
		return p
	}

	p.Start = boundary.AddDays(-(weeks*7 - 1))
	for _, spec := range tpl.Schedule {
		p.Workouts[p.Start.AddDays(spec.Day)] = spec.Workout
	}
	return p
}

// DefaultEndDate is the end date used when the user has not chosen one:
// the end of the current week plus twenty weeks.
func DefaultEndDate(today Date, ws WeekStart) Date {
	return EndOfWeek(today, ws).AddDays(20 * 7)
}
