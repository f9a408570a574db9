// Package engine coordinates the calendar state machine: plan selection,
// rebuilds, swaps, undo, profile switching, and persistence.
package engine

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quietrun/racecal/internal/catalog"
	"github.com/quietrun/racecal/internal/plan"
	"github.com/quietrun/racecal/internal/session"
)

// Engine owns the working tuple (profile, plan, endDate, units,
// weekStartsOn, racePlan, history) and keeps it consistent with the session
// store and the share-link mirror.
//
// The engine is event-driven and single-threaded: all methods must be called
// from one goroutine (the UI loop or a CLI command). Template fetches may
// run elsewhere, but their results re-enter through Finish on the calling
// goroutine.
type Engine struct {
	catalog  *catalog.Catalog
	sessions *session.Store
	logger   zerolog.Logger

	profile      string
	plan         catalog.Summary
	endDate      plan.Date
	units        plan.Units
	weekStartsOn plan.WeekStart
	racePlan     *plan.RacePlan
	history      plan.History

	fetchSeq uint64
}

// Rebuild is a pending template fetch. It carries the parameters the plan
// will be rebuilt with and a token identifying the request; a completion
// whose token is no longer the latest issued is stale and is discarded, so a
// slow fetch can never overwrite fresher state.
type Rebuild struct {
	Token        uint64
	Summary      catalog.Summary
	EndDate      plan.Date
	Units        plan.Units
	WeekStartsOn plan.WeekStart
}

// Options seeds a fresh session, typically from CLI flags or a share link.
// When the profile has saved state, that state wins and the options are
// ignored (the restore never re-fetches); otherwise zero-valued fields fall
// back to derived defaults.
type Options struct {
	Profile      string
	PlanID       string
	EndDate      plan.Date
	Units        plan.Units
	WeekStartsOn plan.WeekStart
}

// New creates an engine over a catalog and session store.
func New(cat *catalog.Catalog, sessions *session.Store, logger zerolog.Logger) *Engine {
	return &Engine{
		catalog:      cat,
		sessions:     sessions,
		logger:       logger,
		units:        DefaultUnits(),
		weekStartsOn: plan.WeekStartMonday,
	}
}

// Start restores the current (or requested) profile. When saved state
// exists it is restored directly, without re-fetching the template; the
// returned Rebuild is nil. Otherwise default state is assembled and the
// caller must complete the returned Rebuild.
func (e *Engine) Start(ctx context.Context, opts Options) *Rebuild {
	profile := opts.Profile
	if profile == "" {
		profile = e.sessions.CurrentProfile(ctx)
	}
	return e.enterProfile(ctx, profile, opts)
}

// SwitchProfile activates another profile, loading its saved state or
// assembling fresh defaults (returning the Rebuild to complete).
func (e *Engine) SwitchProfile(ctx context.Context, profile string) *Rebuild {
	return e.enterProfile(ctx, profile, Options{})
}

func (e *Engine) enterProfile(ctx context.Context, profile string, opts Options) *Rebuild {
	e.profile = profile
	e.sessions.SetCurrentProfile(ctx, profile)

	if saved, ok := e.sessions.Load(ctx, profile); ok && saved.RacePlan != nil {
		e.plan = e.catalog.Find(saved.PlanID)
		e.endDate = plan.DateOf(saved.PlanEndDate)
		if saved.Units.Valid() {
			e.units = saved.Units
		}
		if saved.WeekStartsOn.Valid() {
			e.weekStartsOn = saved.WeekStartsOn
		}
		e.racePlan = saved.RacePlan
		if len(saved.UndoHistory) > 0 {
			e.history = plan.HistoryOf(saved.UndoHistory)
		} else {
			e.history = plan.NewHistory(*saved.RacePlan)
		}
		return nil
	}

	e.racePlan = nil
	e.history = plan.History{}
	summary := e.catalog.Find(opts.PlanID)
	ws := plan.WeekStartMonday
	if opts.WeekStartsOn.Valid() {
		ws = opts.WeekStartsOn
	}
	units := DefaultUnits()
	if opts.Units.Valid() {
		units = opts.Units
	}
	endDate := opts.EndDate
	if endDate.IsZero() {
		endDate = plan.DefaultEndDate(plan.DateOf(time.Now()), ws)
	}
	return e.beginRebuild(summary, endDate, units, ws)
}

func (e *Engine) beginRebuild(summary catalog.Summary, endDate plan.Date, units plan.Units, ws plan.WeekStart) *Rebuild {
	e.fetchSeq++
	return &Rebuild{
		Token:        e.fetchSeq,
		Summary:      summary,
		EndDate:      endDate,
		Units:        units,
		WeekStartsOn: ws,
	}
}

// SetPlan stages a plan change. Nothing is committed until Finish runs with
// the fetched template, so a failed fetch leaves the prior state visible.
func (e *Engine) SetPlan(id string) *Rebuild {
	return e.beginRebuild(e.catalog.Find(id), e.endDate, e.units, e.weekStartsOn)
}

// SetEndDate stages an end-date change.
func (e *Engine) SetEndDate(d plan.Date) *Rebuild {
	return e.beginRebuild(e.plan, d, e.units, e.weekStartsOn)
}

// SetWeekStart stages a week-start change.
func (e *Engine) SetWeekStart(ws plan.WeekStart) *Rebuild {
	return e.beginRebuild(e.plan, e.endDate, e.units, ws)
}

// Fetch retrieves the template for a pending rebuild. Safe to call off the
// engine goroutine; only Finish touches engine state.
func (e *Engine) Fetch(ctx context.Context, r *Rebuild) (plan.PlanTemplate, error) {
	return e.catalog.Fetch(ctx, r.Summary)
}

// Finish commits a completed rebuild: the plan is rebuilt, the undo history
// resets to a single snapshot, and the state is persisted. Stale tokens are
// discarded and Finish reports false.
func (e *Engine) Finish(ctx context.Context, r *Rebuild, tpl plan.PlanTemplate) bool {
	if r.Token != e.fetchSeq {
		e.logger.Debug().
			Uint64("token", r.Token).
			Uint64("latest", e.fetchSeq).
			Str("plan", r.Summary.ID).
			Msg("discarding stale plan fetch")
		return false
	}
	built := plan.Build(tpl, r.EndDate, r.WeekStartsOn)
	e.plan = r.Summary
	e.endDate = r.EndDate
	e.units = r.Units
	e.weekStartsOn = r.WeekStartsOn
	e.racePlan = &built
	e.history = plan.NewHistory(built)
	e.persist(ctx)
	return true
}

// Fail records a failed rebuild. Prior state stays visible.
func (e *Engine) Fail(r *Rebuild, err error) {
	e.logger.Error().Err(err).Str("plan", r.Summary.ID).Msg("plan fetch failed")
}

// Rebuild runs a pending rebuild synchronously. CLI paths use this; the TUI
// fetches through a command and calls Finish itself.
func (e *Engine) Rebuild(ctx context.Context, r *Rebuild) error {
	tpl, err := e.Fetch(ctx, r)
	if err != nil {
		e.Fail(r, err)
		return err
	}
	e.Finish(ctx, r, tpl)
	return nil
}

// SetUnits switches display units. Units never affect scheduling, so the
// plan is not rebuilt and the undo history is untouched; the change is
// persisted and mirrored.
func (e *Engine) SetUnits(ctx context.Context, u plan.Units) {
	if !u.Valid() || u == e.units {
		return
	}
	e.units = u
	e.persist(ctx)
}

// SwapDates exchanges the workouts of two dates and commits the result.
func (e *Engine) SwapDates(ctx context.Context, d1, d2 plan.Date) {
	if e.racePlan == nil {
		return
	}
	next := plan.SwapDates(*e.racePlan, d1, d2)
	e.commit(ctx, next)
}

// SwapDow exchanges two weekday columns across the plan and commits the
// result.
func (e *Engine) SwapDow(ctx context.Context, d1, d2 time.Weekday) {
	if e.racePlan == nil {
		return
	}
	next := plan.SwapDow(*e.racePlan, d1, d2)
	e.commit(ctx, next)
}

func (e *Engine) commit(ctx context.Context, next plan.RacePlan) {
	e.racePlan = &next
	e.history = e.history.Push(next)
	e.persist(ctx)
}

// Undo reverts the most recent swap. At the bottom of the history it is a
// no-op and reports false.
func (e *Engine) Undo(ctx context.Context) bool {
	history, active, popped := e.history.Pop()
	if !popped {
		return false
	}
	e.history = history
	e.racePlan = &active
	e.persist(ctx)
	return true
}

// CanUndo reports whether an undoable swap exists.
func (e *Engine) CanUndo() bool {
	return e.history.Len() > 1
}

func (e *Engine) persist(ctx context.Context) {
	e.sessions.Save(ctx, e.profile, session.State{
		PlanID:       e.plan.ID,
		PlanEndDate:  e.endDate.Time(),
		Units:        e.units,
		WeekStartsOn: e.weekStartsOn,
		RacePlan:     e.racePlan,
		UndoHistory:  e.history.Snapshots(),
	})
}

// Profile returns the active profile id.
func (e *Engine) Profile() string { return e.profile }

// Plan returns the selected plan summary.
func (e *Engine) Plan() catalog.Summary { return e.plan }

// EndDate returns the anchoring end date.
func (e *Engine) EndDate() plan.Date { return e.endDate }

// Units returns the display units.
func (e *Engine) Units() plan.Units { return e.units }

// WeekStartsOn returns the week-start convention.
func (e *Engine) WeekStartsOn() plan.WeekStart { return e.weekStartsOn }

// RacePlan returns the active plan, if one has been built or restored.
func (e *Engine) RacePlan() (plan.RacePlan, bool) {
	if e.racePlan == nil {
		return plan.RacePlan{}, false
	}
	return *e.racePlan, true
}

// HistoryLen returns the undo history depth.
func (e *Engine) HistoryLen() int { return e.history.Len() }

// ShareLink mirrors the plan-defining state as a query string so the
// working calendar can be reconstructed from a shared link. Best effort,
// not the system of record.
func (e *Engine) ShareLink() string {
	return Params{
		Units:        e.units,
		PlanID:       e.plan.ID,
		EndDate:      e.endDate,
		WeekStartsOn: e.weekStartsOn,
	}.Encode()
}

// DefaultUnits derives display units from the locale environment: US
// measurement locales get miles, everyone else kilometers.
func DefaultUnits() plan.Units {
	for _, name := range []string{"LC_MEASUREMENT", "LC_ALL", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if strings.Contains(v, "_US") {
			return plan.UnitsMiles
		}
		return plan.UnitsKilometers
	}
	return plan.UnitsMiles
}
