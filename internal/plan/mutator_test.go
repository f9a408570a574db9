package plan

import (
	"reflect"
	"sort"
	"testing"
	"time"
)

func builtPlan(t *testing.T) RacePlan {
	t.Helper()
	return Build(sampleTemplate(), mustDate(t, "2026-09-05"), WeekStartMonday)
}

func workoutMultiset(p RacePlan) []string {
	titles := make([]string, 0, len(p.Workouts))
	for _, w := range p.Workouts {
		titles = append(titles, w.Title)
	}
	sort.Strings(titles)
	return titles
}

func TestSwapDatesExchangesAssignments(t *testing.T) {
	p := builtPlan(t)
	d1 := mustDate(t, "2026-08-24") // Long Run
	d2 := mustDate(t, "2026-08-27") // Tempo

	swapped := SwapDates(p, d1, d2)
	if w, _ := swapped.WorkoutOn(d1); w.Title != "Tempo" {
		t.Fatalf("expected Tempo on %s, got %q", d1, w.Title)
	}
	if w, _ := swapped.WorkoutOn(d2); w.Title != "Long Run" {
		t.Fatalf("expected Long Run on %s, got %q", d2, w.Title)
	}
	// The input plan is untouched.
	if w, _ := p.WorkoutOn(d1); w.Title != "Long Run" {
		t.Fatal("input plan was mutated")
	}
}

func TestSwapDatesConservesWorkouts(t *testing.T) {
	p := builtPlan(t)
	before := workoutMultiset(p)
	swapped := SwapDates(p, mustDate(t, "2026-08-24"), mustDate(t, "2026-08-30"))
	if !reflect.DeepEqual(before, workoutMultiset(swapped)) {
		t.Fatalf("workout multiset changed: %v vs %v", before, workoutMultiset(swapped))
	}
}

func TestSwapDatesWithEmptySlot(t *testing.T) {
	p := builtPlan(t)
	src := mustDate(t, "2026-08-24") // Long Run
	dst := mustDate(t, "2026-08-25") // unassigned

	swapped := SwapDates(p, src, dst)
	if _, ok := swapped.WorkoutOn(src); ok {
		t.Fatalf("expected %s to become unassigned", src)
	}
	if w, ok := swapped.WorkoutOn(dst); !ok || w.Title != "Long Run" {
		t.Fatalf("expected Long Run to move to %s", dst)
	}
	if len(swapped.Workouts) != len(p.Workouts) {
		t.Fatalf("assignment count changed: %d vs %d", len(swapped.Workouts), len(p.Workouts))
	}
}

func TestSwapDatesInvolution(t *testing.T) {
	p := builtPlan(t)
	d1 := mustDate(t, "2026-08-24")
	d2 := mustDate(t, "2026-09-03")
	back := SwapDates(SwapDates(p, d1, d2), d1, d2)
	if !reflect.DeepEqual(p, back) {
		t.Fatal("double swap did not restore the plan")
	}
}

func TestSwapDatesNoOps(t *testing.T) {
	p := builtPlan(t)
	same := mustDate(t, "2026-08-24")
	if got := SwapDates(p, same, same); !reflect.DeepEqual(p, got) {
		t.Fatal("identical dates should be a no-op")
	}
	outside := mustDate(t, "2026-10-01")
	if got := SwapDates(p, same, outside); !reflect.DeepEqual(p, got) {
		t.Fatal("out-of-span date should be a no-op")
	}
}

func TestSwapDowSwapsEveryWeekIndependently(t *testing.T) {
	p := builtPlan(t)
	swapped := SwapDow(p, time.Monday, time.Thursday)

	// Week 1: Long Run (Mon) and Tempo (Thu) trade places.
	if w, _ := swapped.WorkoutOn(mustDate(t, "2026-08-24")); w.Title != "Tempo" {
		t.Fatalf("week 1 Monday: expected Tempo, got %q", w.Title)
	}
	if w, _ := swapped.WorkoutOn(mustDate(t, "2026-08-27")); w.Title != "Long Run" {
		t.Fatalf("week 1 Thursday: expected Long Run, got %q", w.Title)
	}
	// Week 2: Monday and Thursday are both empty there, so Wednesday's
	// Intervals stays put.
	if w, ok := swapped.WorkoutOn(mustDate(t, "2026-09-02")); !ok || w.Title != "Intervals" {
		t.Fatalf("week 2 Wednesday should keep Intervals, got %+v (ok=%v)", w, ok)
	}
}

func TestSwapDowInvolution(t *testing.T) {
	p := builtPlan(t)
	back := SwapDow(SwapDow(p, time.Sunday, time.Wednesday), time.Sunday, time.Wednesday)
	if !reflect.DeepEqual(p, back) {
		t.Fatal("double weekday swap did not restore the plan")
	}
}

func TestSwapDowIdentityNoOp(t *testing.T) {
	p := builtPlan(t)
	if got := SwapDow(p, time.Friday, time.Friday); !reflect.DeepEqual(p, got) {
		t.Fatal("identical weekdays should be a no-op")
	}
}

func TestSwapDowConservesWorkouts(t *testing.T) {
	p := builtPlan(t)
	before := workoutMultiset(p)
	swapped := SwapDow(p, time.Monday, time.Sunday)
	if !reflect.DeepEqual(before, workoutMultiset(swapped)) {
		t.Fatalf("workout multiset changed: %v vs %v", before, workoutMultiset(swapped))
	}
}
