package plan

// History is an immutable stack of RacePlan snapshots, oldest first. Push
// and Pop return new History values and never mutate a shared backing array,
// so callers holding older History values (or rendering from them) are
// unaffected by later operations.
//
// Whenever the history is non-empty its last element is the active plan.
type History struct {
	plans []RacePlan
}

// NewHistory returns a history containing only the given plan. Used when a
// fresh build resets the undo trail.
func NewHistory(p RacePlan) History {
	return History{plans: []RacePlan{p}}
}

// HistoryOf restores a history from persisted snapshots.
func HistoryOf(plans []RacePlan) History {
	return History{plans: append([]RacePlan(nil), plans...)}
}

// Len returns the number of snapshots.
func (h History) Len() int {
	return len(h.plans)
}

// Active returns the current plan (the last snapshot), if any.
func (h History) Active() (RacePlan, bool) {
	if len(h.plans) == 0 {
		return RacePlan{}, false
	}
	return h.plans[len(h.plans)-1], true
}

// Push appends a committed snapshot and returns the new history.
func (h History) Push(p RacePlan) History {
	plans := make([]RacePlan, len(h.plans)+1)
	copy(plans, h.plans)
	plans[len(h.plans)] = p
	return History{plans: plans}
}

// Pop removes the most recent snapshot and returns the new history, the plan
// now active, and whether anything was removed. Popping with one or zero
// snapshots is a no-op: the history is returned unchanged and the active
// plan (zero-valued when empty) is reported with popped == false.
func (h History) Pop() (History, RacePlan, bool) {
	if len(h.plans) <= 1 {
		active, _ := h.Active()
		return h, active, false
	}
	plans := make([]RacePlan, len(h.plans)-1)
	copy(plans, h.plans[:len(h.plans)-1])
	return History{plans: plans}, plans[len(plans)-1], true
}

// Snapshots returns a copy of the stack, oldest first, for persistence.
func (h History) Snapshots() []RacePlan {
	return append([]RacePlan(nil), h.plans...)
}
