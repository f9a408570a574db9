package engine

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quietrun/racecal/internal/catalog"
	"github.com/quietrun/racecal/internal/kv"
	"github.com/quietrun/racecal/internal/plan"
	"github.com/quietrun/racecal/internal/session"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cat, err := catalog.New()
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	backend, err := kv.OpenBadger(kv.BadgerConfig{InMemory: true})
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() {
		if cerr := backend.Close(); cerr != nil {
			t.Errorf("failed to close backend: %v", cerr)
		}
	})
	return New(cat, session.NewStore(backend, zerolog.Nop()), zerolog.Nop())
}

func startEngine(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	end, _ := plan.ParseDate("2026-12-20")
	r := e.Start(ctx, Options{PlanID: "5k-8wk", EndDate: end, Units: plan.UnitsMiles, WeekStartsOn: plan.WeekStartMonday})
	if r == nil {
		t.Fatal("fresh profile should need a rebuild")
	}
	if err := e.Rebuild(ctx, r); err != nil {
		t.Fatalf("failed to rebuild: %v", err)
	}
}

func TestSwapUndoScenario(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	startEngine(t, e)

	p, ok := e.RacePlan()
	if !ok {
		t.Fatal("expected a built plan")
	}
	if e.HistoryLen() != 1 {
		t.Fatalf("expected history [1], got %d", e.HistoryLen())
	}

	// Pick two assigned dates and swap them.
	d1 := p.Start.AddDays(1)
	d2 := p.Start.AddDays(3)
	w1, _ := p.WorkoutOn(d1)
	w2, _ := p.WorkoutOn(d2)

	e.SwapDates(ctx, d1, d2)
	if e.HistoryLen() != 2 {
		t.Fatalf("expected history [1,2], got %d", e.HistoryLen())
	}
	swapped, _ := e.RacePlan()
	if got, _ := swapped.WorkoutOn(d1); got != w2 {
		t.Fatalf("expected %q on %s, got %q", w2.Title, d1, got.Title)
	}
	if got, _ := swapped.WorkoutOn(d2); got != w1 {
		t.Fatalf("expected %q on %s, got %q", w1.Title, d2, got.Title)
	}

	if !e.CanUndo() {
		t.Fatal("undo should be available after a swap")
	}
	if !e.Undo(ctx) {
		t.Fatal("undo failed")
	}
	if e.HistoryLen() != 1 {
		t.Fatalf("expected history [1,2,1], got final %d", e.HistoryLen())
	}
	restored, _ := e.RacePlan()
	if got, _ := restored.WorkoutOn(d1); got != w1 {
		t.Fatal("undo did not restore the original mapping")
	}
	if e.Undo(ctx) {
		t.Fatal("undo past the bottom must be a no-op")
	}
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	startEngine(t, e)

	first := e.SetPlan("marathon-18wk")
	end, _ := plan.ParseDate("2027-03-14")
	second := e.SetEndDate(end)

	// The older request resolves late; its completion must not win.
	tplFirst, err := e.Fetch(ctx, first)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	tplSecond, err := e.Fetch(ctx, second)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !e.Finish(ctx, second, tplSecond) {
		t.Fatal("latest request should commit")
	}
	if e.Finish(ctx, first, tplFirst) {
		t.Fatal("stale request must be discarded")
	}
	if e.Plan().ID != "5k-8wk" || e.EndDate() != end {
		t.Fatalf("stale completion overwrote state: %s ending %s", e.Plan().ID, e.EndDate())
	}
}

func TestFailedFetchRetainsPriorState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := newTestEngine(t)
	startEngine(t, e)
	before, _ := e.RacePlan()

	r := e.SetPlan("marathon-18wk")
	cancel()
	if err := e.Rebuild(ctx, r); err == nil {
		t.Fatal("expected fetch error")
	}
	after, ok := e.RacePlan()
	if !ok || e.Plan().ID != "5k-8wk" || len(after.Workouts) != len(before.Workouts) {
		t.Fatal("failed fetch must leave prior state visible")
	}
}

func TestUnitsChangeDoesNotRebuildOrResetHistory(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	startEngine(t, e)

	p, _ := e.RacePlan()
	e.SwapDates(ctx, p.Start.AddDays(1), p.Start.AddDays(3))
	if e.HistoryLen() != 2 {
		t.Fatalf("expected history depth 2, got %d", e.HistoryLen())
	}

	e.SetUnits(ctx, plan.UnitsKilometers)
	if e.Units() != plan.UnitsKilometers {
		t.Fatal("units change not applied")
	}
	if e.HistoryLen() != 2 {
		t.Fatal("units change must not reset history")
	}
	after, _ := e.RacePlan()
	if len(after.Workouts) != len(p.Workouts) {
		t.Fatal("units change must not rebuild the plan")
	}
}

func TestPlanChangeResetsHistory(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	startEngine(t, e)

	p, _ := e.RacePlan()
	e.SwapDates(ctx, p.Start.AddDays(1), p.Start.AddDays(3))
	if err := e.Rebuild(ctx, e.SetPlan("half-marathon-12wk")); err != nil {
		t.Fatalf("failed to rebuild: %v", err)
	}
	if e.HistoryLen() != 1 {
		t.Fatalf("plan change must reset history to 1, got %d", e.HistoryLen())
	}
	if e.Plan().ID != "half-marathon-12wk" {
		t.Fatalf("plan not committed: %s", e.Plan().ID)
	}
}

func TestSwapDowCommits(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	startEngine(t, e)

	e.SwapDow(ctx, time.Tuesday, time.Saturday)
	if e.HistoryLen() != 2 {
		t.Fatalf("weekday swap should push history, got %d", e.HistoryLen())
	}
}

func TestProfileSwitchRestoresSavedState(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	startEngine(t, e)

	p, _ := e.RacePlan()
	e.SwapDates(ctx, p.Start.AddDays(1), p.Start.AddDays(3))
	aaronHistory := e.HistoryLen()

	// kristin has no saved state: fresh defaults need a fetch.
	r := e.SwitchProfile(ctx, "kristin")
	if r == nil {
		t.Fatal("fresh profile should need a rebuild")
	}
	if err := e.Rebuild(ctx, r); err != nil {
		t.Fatalf("failed to rebuild: %v", err)
	}
	if e.HistoryLen() != 1 {
		t.Fatalf("fresh profile should start with history 1, got %d", e.HistoryLen())
	}

	// Switching back restores aaron's state without a fetch.
	if r := e.SwitchProfile(ctx, "aaron"); r != nil {
		t.Fatal("saved state should restore without a rebuild")
	}
	if e.HistoryLen() != aaronHistory {
		t.Fatalf("restored history depth %d, want %d", e.HistoryLen(), aaronHistory)
	}
	if e.Plan().ID != "5k-8wk" {
		t.Fatalf("restored wrong plan %s", e.Plan().ID)
	}
}

func TestStartRestoresWithoutRebuild(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	startEngine(t, e)
	p, _ := e.RacePlan()
	e.SwapDates(ctx, p.Start.AddDays(1), p.Start.AddDays(3))

	// A second engine over the same store picks up the persisted session.
	e2 := New(e.catalog, e.sessions, zerolog.Nop())
	if r := e2.Start(ctx, Options{}); r != nil {
		t.Fatal("saved session should restore without a rebuild")
	}
	if e2.Profile() != "aaron" {
		t.Fatalf("expected default profile aaron, got %q", e2.Profile())
	}
	if e2.HistoryLen() != 2 {
		t.Fatalf("expected restored history 2, got %d", e2.HistoryLen())
	}
}
