package plan

import "fmt"

// Units selects the distance unit used for display and export. Scheduling
// never interprets it.
type Units string

// Supported units.
const (
	UnitsMiles      Units = "mi"
	UnitsKilometers Units = "km"
)

const milesPerKilometer = 0.621371192237334

// ParseUnits maps a units code to a Units value.
func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case UnitsMiles:
		return UnitsMiles, nil
	case UnitsKilometers:
		return UnitsKilometers, nil
	}
	return UnitsMiles, fmt.Errorf("invalid units %q (want mi or km)", s)
}

// Valid reports whether u is a supported units code.
func (u Units) Valid() bool {
	return u == UnitsMiles || u == UnitsKilometers
}

// ConvertDistance converts a distance value between units.
func ConvertDistance(v float64, from, to Units) float64 {
	if from == to || v == 0 {
		return v
	}
	if from == UnitsMiles && to == UnitsKilometers {
		return v / milesPerKilometer
	}
	return v * milesPerKilometer
}

// Workout is a single scheduled session. Workouts are immutable values:
// mutations reassign their dates, never their content.
type Workout struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Distance    float64 `json:"distance,omitempty"`
}

// WorkoutSpec places a workout at a day offset from the start of a plan
// template. Day 0 is the first day of the plan's first week.
type WorkoutSpec struct {
	Day int `json:"day"`
	Workout
}

// PlanTemplate is an abstract training plan: an ordered schedule of workouts
// at day offsets, authored in a fixed unit. Templates are immutable once
// fetched from the catalog.
type PlanTemplate struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Units    Units         `json:"units"`
	Source   string        `json:"source,omitempty"`
	Schedule []WorkoutSpec `json:"schedule"`
}

// Validate checks that the schedule is collision-free so the builder can
// produce a total, one-date-per-workout mapping.
func (t PlanTemplate) Validate() error {
	if !t.Units.Valid() {
		return fmt.Errorf("plan %s: invalid units %q", t.ID, string(t.Units))
	}
	seen := make(map[int]struct{}, len(t.Schedule))
	for _, spec := range t.Schedule {
		if spec.Day < 0 {
			return fmt.Errorf("plan %s: negative day offset %d", t.ID, spec.Day)
		}
		if _, ok := seen[spec.Day]; ok {
			return fmt.Errorf("plan %s: duplicate day offset %d", t.ID, spec.Day)
		}
		seen[spec.Day] = struct{}{}
	}
	return nil
}

// Weeks returns the number of whole plan weeks the schedule spans.
func (t PlanTemplate) Weeks() int {
	maxDay := -1
	for _, spec := range t.Schedule {
		if spec.Day > maxDay {
			maxDay = spec.Day
		}
	}
	return (maxDay + 7) / 7
}

// RacePlan is a materialized plan: workout assignments keyed by date inside
// a week-aligned span, plus the anchors used to build it. Values are treated
// as immutable; Builder and the swap operations always return fresh copies,
// so retained history snapshots never alias live state.
type RacePlan struct {
	PlanID       string           `json:"planId"`
	Units        Units            `json:"units"`
	Start        Date             `json:"start"`
	End          Date             `json:"end"`
	EndDate      Date             `json:"endDate"`
	WeekStartsOn WeekStart        `json:"weekStartsOn"`
	Workouts     map[Date]Workout `json:"workouts"`
}

// Weeks returns the number of whole weeks in the plan span.
func (p RacePlan) Weeks() int {
	if p.Start.IsZero() || p.End.Before(p.Start) {
		return 0
	}
	return (p.End.Sub(p.Start) + 1) / 7
}

// Contains reports whether d falls inside the plan's span.
func (p RacePlan) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// WorkoutOn returns the workout assigned to d, if any.
func (p RacePlan) WorkoutOn(d Date) (Workout, bool) {
	w, ok := p.Workouts[d]
	return w, ok
}

// Dates returns the assigned dates in no particular order.
func (p RacePlan) Dates() []Date {
	out := make([]Date, 0, len(p.Workouts))
	for d := range p.Workouts {
		out = append(out, d)
	}
	return out
}

func (p RacePlan) cloneWorkouts() map[Date]Workout {
	out := make(map[Date]Workout, len(p.Workouts))
	for d, w := range p.Workouts {
		out[d] = w
	}
	return out
}
