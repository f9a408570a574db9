package plan

import "time"

// SwapDates exchanges the workout assignments of two dates and returns the
// resulting plan. The input plan is never modified.
//
// An unassigned date swaps as an empty slot: the workout moves and the
// vacated date becomes unassigned, so the plan's workout multiset is
// preserved. Identical dates and dates outside the plan span return the
// input unchanged; the calendar only offers in-span dates, so out-of-range
// targets are a no-op rather than an error.
func SwapDates(p RacePlan, d1, d2 Date) RacePlan {
	if d1 == d2 || !p.Contains(d1) || !p.Contains(d2) {
		return p
	}
	return p.swapped(d1, d2)
}

// SwapDow exchanges the workouts assigned to two weekdays within every week
// of the plan, each week independently, and returns the resulting plan.
// Identical weekdays return the input unchanged.
func SwapDow(p RacePlan, dow1, dow2 time.Weekday) RacePlan {
	if dow1 == dow2 || p.Weeks() == 0 {
		return p
	}
	off1 := p.WeekStartsOn.DayOffset(dow1)
	off2 := p.WeekStartsOn.DayOffset(dow2)
	out := p
	for week := 0; week < p.Weeks(); week++ {
		weekStart := p.Start.AddDays(week * 7)
		out = out.swapped(weekStart.AddDays(off1), weekStart.AddDays(off2))
	}
	return out
}

func (p RacePlan) swapped(d1, d2 Date) RacePlan {
	w1, ok1 := p.Workouts[d1]
	w2, ok2 := p.Workouts[d2]
	if !ok1 && !ok2 {
		return p
	}
	out := p
	out.Workouts = p.cloneWorkouts()
	delete(out.Workouts, d1)
	delete(out.Workouts, d2)
	if ok1 {
		out.Workouts[d2] = w1
	}
	if ok2 {
		out.Workouts[d1] = w2
	}
	return out
}
