// Package session persists the per-profile calendar state across runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/quietrun/racecal/internal/kv"
	"github.com/quietrun/racecal/internal/plan"
)

const (
	statePrefix       = "calendar_"
	currentProfileKey = "current_calendar_user"
)

// DefaultProfile is used when no profile has ever been selected.
const DefaultProfile = "aaron"

// State is the full persisted snapshot for one profile. PlanEndDate is
// serialized as an RFC 3339 timestamp and reconstructed to the same instant.
type State struct {
	PlanID       string          `json:"planId"`
	PlanEndDate  time.Time       `json:"planEndDate"`
	Units        plan.Units      `json:"units"`
	WeekStartsOn plan.WeekStart  `json:"weekStartsOn"`
	RacePlan     *plan.RacePlan  `json:"racePlan,omitempty"`
	UndoHistory  []plan.RacePlan `json:"undoHistory,omitempty"`
}

// Store reads and writes State records through a key-value backend.
//
// Persistence failures never propagate: a failed or corrupt read degrades to
// "no saved state" and a failed write to "save skipped", both logged. The
// caller always keeps its in-memory state.
type Store struct {
	kv     kv.Store
	logger zerolog.Logger
}

// NewStore wraps a key-value backend.
func NewStore(store kv.Store, logger zerolog.Logger) *Store {
	return &Store{kv: store, logger: logger}
}

// Save persists the state for a profile. States without a built plan are
// in-progress and are skipped.
func (s *Store) Save(ctx context.Context, profile string, state State) {
	if state.RacePlan == nil {
		return
	}
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Error().Err(err).Str("profile", profile).Msg("failed to encode calendar state")
		return
	}
	if err := s.kv.Set(ctx, statePrefix+profile, data); err != nil {
		s.logger.Error().Err(err).Str("profile", profile).Msg("failed to save calendar state")
	}
}

// Load returns the saved state for a profile. The second return value is
// false when no usable state exists.
func (s *Store) Load(ctx context.Context, profile string) (State, bool) {
	data, err := s.kv.Get(ctx, statePrefix+profile)
	if errors.Is(err, kv.ErrNotFound) {
		return State{}, false
	}
	if err != nil {
		s.logger.Error().Err(err).Str("profile", profile).Msg("failed to load calendar state")
		return State{}, false
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Error().Err(err).Str("profile", profile).Msg("corrupt calendar state, ignoring")
		return State{}, false
	}
	return state, true
}

// Clear removes the saved state for a profile.
func (s *Store) Clear(ctx context.Context, profile string) error {
	if err := s.kv.Delete(ctx, statePrefix+profile); err != nil {
		return fmt.Errorf("failed to clear calendar state for %s: %w", profile, err)
	}
	return nil
}

// SetCurrentProfile records which profile is active.
func (s *Store) SetCurrentProfile(ctx context.Context, profile string) {
	if err := s.kv.Set(ctx, currentProfileKey, []byte(profile)); err != nil {
		s.logger.Error().Err(err).Str("profile", profile).Msg("failed to save current profile")
	}
}

// CurrentProfile returns the active profile, or DefaultProfile if none was
// ever recorded.
func (s *Store) CurrentProfile(ctx context.Context) string {
	data, err := s.kv.Get(ctx, currentProfileKey)
	if errors.Is(err, kv.ErrNotFound) {
		return DefaultProfile
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load current profile")
		return DefaultProfile
	}
	if len(data) == 0 {
		return DefaultProfile
	}
	return string(data)
}
