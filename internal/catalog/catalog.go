// Package catalog supplies plan templates by identifier. Templates ship
// embedded in the binary; Find is default-tolerant so an unknown id never
// fails, and Fetch decodes the full template on demand.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/quietrun/racecal/internal/plan"
)

//go:embed plans/*.json
var planFS embed.FS

// DefaultPlanID is resolved when Find gets an empty or unknown id.
const DefaultPlanID = "half-marathon-12wk"

// Summary identifies a plan without its schedule.
type Summary struct {
	ID   string
	Name string
}

// Catalog indexes the embedded plan templates.
type Catalog struct {
	summaries []Summary
	files     map[string]string
}

// New reads the embedded plan index.
func New() (*Catalog, error) {
	entries, err := planFS.ReadDir("plans")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded plans: %w", err)
	}
	c := &Catalog{files: make(map[string]string, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := "plans/" + entry.Name()
		tpl, err := decodeTemplate(path)
		if err != nil {
			return nil, err
		}
		c.summaries = append(c.summaries, Summary{ID: tpl.ID, Name: tpl.Name})
		c.files[tpl.ID] = path
	}
	if len(c.summaries) == 0 {
		return nil, fmt.Errorf("no embedded plans found")
	}
	sort.Slice(c.summaries, func(i, j int) bool { return c.summaries[i].ID < c.summaries[j].ID })
	return c, nil
}

// Available lists all plan summaries, ordered by id.
func (c *Catalog) Available() []Summary {
	return append([]Summary(nil), c.summaries...)
}

// Find resolves an id to a summary. Unknown or empty ids resolve to the
// default plan (or the first available one) rather than failing; a
// case-insensitive substring is enough to match.
func (c *Catalog) Find(id string) Summary {
	id = strings.TrimSpace(strings.ToLower(id))
	if id != "" {
		for _, s := range c.summaries {
			if strings.ToLower(s.ID) == id {
				return s
			}
		}
		for _, s := range c.summaries {
			if strings.Contains(strings.ToLower(s.ID), id) || strings.Contains(strings.ToLower(s.Name), id) {
				return s
			}
		}
	}
	for _, s := range c.summaries {
		if s.ID == DefaultPlanID {
			return s
		}
	}
	return c.summaries[0]
}

// Fetch loads and validates the full template for a summary.
func (c *Catalog) Fetch(ctx context.Context, s Summary) (plan.PlanTemplate, error) {
	if err := ctx.Err(); err != nil {
		return plan.PlanTemplate{}, err
	}
	path, ok := c.files[s.ID]
	if !ok {
		return plan.PlanTemplate{}, fmt.Errorf("unknown plan %q", s.ID)
	}
	return decodeTemplate(path)
}

func decodeTemplate(path string) (plan.PlanTemplate, error) {
	data, err := planFS.ReadFile(path)
	if err != nil {
		return plan.PlanTemplate{}, fmt.Errorf("failed to read plan %s: %w", path, err)
	}
	var tpl plan.PlanTemplate
	if err := json.Unmarshal(data, &tpl); err != nil {
		return plan.PlanTemplate{}, fmt.Errorf("failed to decode plan %s: %w", path, err)
	}
	if err := tpl.Validate(); err != nil {
		return plan.PlanTemplate{}, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	return tpl, nil
}
