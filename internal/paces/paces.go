// Package paces supplies per-profile training paces. Each profile has a
// dated history of pace tables; the most recent entry is the one shown.
// A profile's file in the data directory overrides the embedded defaults.
package paces

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quietrun/racecal/internal/plan"
)

//go:embed data/*_paces.json
var pacesFS embed.FS

// Entry is one dated pace table, keyed by pace name (Easy, Tempo, 5K, ...).
type Entry struct {
	Date  plan.Date         `json:"date"`
	Paces map[string]string `json:"paces"`
}

// History is a profile's pace entries, oldest first.
type History []Entry

// Latest returns the most recent entry.
func (h History) Latest() (Entry, bool) {
	if len(h) == 0 {
		return Entry{}, false
	}
	return h[len(h)-1], true
}

// Load reads the paces history for a profile. A <profile>_paces.json in dir
// wins over the embedded data; a profile with neither has an empty history.
func Load(dir, profile string) (History, error) {
	name := profile + "_paces.json"
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return decode(name, data)
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read paces file: %w", err)
		}
	}
	data, err := pacesFS.ReadFile("data/" + name)
	if err != nil {
		return nil, nil
	}
	return decode(name, data)
}

func decode(name string, data []byte) (History, error) {
	var history History
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return history, nil
}

// FormatPace appends the per-mile suffix to mm:ss values; anything else is
// already a free-form label and passes through.
func FormatPace(v string) string {
	if strings.Contains(v, ":") {
		return v + "/mi"
	}
	return v
}
