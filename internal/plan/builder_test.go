package plan

import (
	"reflect"
	"testing"
)

func sampleTemplate() PlanTemplate {
	return PlanTemplate{
		ID:    "test-2wk",
		Name:  "Two Week Test",
		Units: UnitsMiles,
		Schedule: []WorkoutSpec{
			{Day: 0, Workout: Workout{Title: "Long Run", Distance: 10}},
			{Day: 3, Workout: Workout{Title: "Tempo", Distance: 5}},
			{Day: 9, Workout: Workout{Title: "Intervals", Distance: 6}},
		},
	}
}

func TestBuildLaysOutBackwardFromBoundary(t *testing.T) {
	tpl := PlanTemplate{
		ID:    "mini",
		Units: UnitsMiles,
		Schedule: []WorkoutSpec{
			{Day: 0, Workout: Workout{Title: "Long Run"}},
			{Day: 3, Workout: Workout{Title: "Tempo"}},
		},
	}
	// 2026-09-05 is a Saturday; with a Monday week start the boundary is
	// Sunday 2026-09-06 and the single plan week starts Monday 2026-08-31.
	p := Build(tpl, mustDate(t, "2026-09-05"), WeekStartMonday)

	if p.Start.String() != "2026-08-31" || p.End.String() != "2026-09-06" {
		t.Fatalf("unexpected span %s..%s", p.Start, p.End)
	}
	if w, ok := p.WorkoutOn(mustDate(t, "2026-08-31")); !ok || w.Title != "Long Run" {
		t.Fatalf("expected Long Run on week start, got %+v (ok=%v)", w, ok)
	}
	if w, ok := p.WorkoutOn(mustDate(t, "2026-09-03")); !ok || w.Title != "Tempo" {
		t.Fatalf("expected Tempo three days later, got %+v (ok=%v)", w, ok)
	}
}

func TestBuildMultiWeekSpan(t *testing.T) {
	p := Build(sampleTemplate(), mustDate(t, "2026-09-05"), WeekStartMonday)
	if p.Weeks() != 2 {
		t.Fatalf("expected 2 weeks, got %d", p.Weeks())
	}
	if p.Start.String() != "2026-08-24" {
		t.Fatalf("unexpected start %s", p.Start)
	}
	if len(p.Workouts) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(p.Workouts))
	}
	for d := range p.Workouts {
		if !p.Contains(d) {
			t.Fatalf("assignment %s outside span %s..%s", d, p.Start, p.End)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	end := mustDate(t, "2026-11-22")
	a := Build(sampleTemplate(), end, WeekStartSunday)
	b := Build(sampleTemplate(), end, WeekStartSunday)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different plans")
	}
}

func TestBuildEmptyTemplate(t *testing.T) {
	tpl := PlanTemplate{ID: "empty", Units: UnitsKilometers}
	p := Build(tpl, mustDate(t, "2026-09-05"), WeekStartMonday)
	if len(p.Workouts) != 0 {
		t.Fatalf("expected no assignments, got %d", len(p.Workouts))
	}
	if p.End.String() != "2026-09-06" {
		t.Fatalf("expected boundary anchor, got %s", p.End)
	}
}

func TestDefaultEndDate(t *testing.T) {
	// Monday 2026-08-31: the current week ends Sunday 2026-09-06 and the
	// default race day is twenty weeks after that.
	got := DefaultEndDate(mustDate(t, "2026-08-31"), WeekStartMonday)
	if got.String() != "2027-01-24" {
		t.Fatalf("unexpected default end date %s", got)
	}
}

func TestTemplateValidate(t *testing.T) {
	tpl := sampleTemplate()
	if err := tpl.Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
	tpl.Schedule = append(tpl.Schedule, WorkoutSpec{Day: 3, Workout: Workout{Title: "Dup"}})
	if err := tpl.Validate(); err == nil {
		t.Fatal("expected duplicate offset error")
	}
}
