package engine

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/quietrun/racecal/internal/plan"
)

// Share-link query parameters: units code, plan id, end date, week-start
// code (0/1/6). All optional; absent or invalid values fall back to the
// caller's defaults on parse.
const (
	paramUnits     = "u"
	paramPlan      = "p"
	paramEndDate   = "d"
	paramWeekStart = "s"
)

// Params is the shareable mirror of the plan-defining state.
type Params struct {
	Units        plan.Units
	PlanID       string
	EndDate      plan.Date
	WeekStartsOn plan.WeekStart
}

// Encode renders the params as a URL query string.
func (p Params) Encode() string {
	v := url.Values{}
	if p.Units.Valid() {
		v.Set(paramUnits, string(p.Units))
	}
	if p.PlanID != "" {
		v.Set(paramPlan, p.PlanID)
	}
	if !p.EndDate.IsZero() {
		v.Set(paramEndDate, p.EndDate.String())
	}
	v.Set(paramWeekStart, strconv.Itoa(int(p.WeekStartsOn)))
	return v.Encode()
}

// ParseParams reads a share link or bare query string, filling any absent or
// invalid parameter from defaults.
func ParseParams(link string, defaults Params) (Params, error) {
	query := link
	if u, err := url.Parse(link); err == nil && u.RawQuery != "" {
		query = u.RawQuery
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return defaults, fmt.Errorf("failed to parse share link: %w", err)
	}

	out := defaults
	if s := values.Get(paramUnits); s != "" {
		if u, err := plan.ParseUnits(s); err == nil {
			out.Units = u
		}
	}
	if s := values.Get(paramPlan); s != "" {
		out.PlanID = s
	}
	if s := values.Get(paramEndDate); s != "" {
		if d, err := plan.ParseDate(s); err == nil {
			out.EndDate = d
		}
	}
	if s := values.Get(paramWeekStart); s != "" {
		if ws, err := plan.ParseWeekStart(s); err == nil {
			out.WeekStartsOn = ws
		}
	}
	return out, nil
}
