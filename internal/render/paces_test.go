package render

import (
	"strings"
	"testing"

	"github.com/quietrun/racecal/internal/paces"
)

func TestPaceTable(t *testing.T) {
	entry := paces.Entry{Paces: map[string]string{
		"Tempo": "7:35",
		"Easy":  "9:00",
	}}
	lines := PaceTable(entry)
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "Easy") || !strings.Contains(lines[1], "9:00/mi") {
		t.Fatalf("rows not sorted by pace name: %s", lines[1])
	}
	if !strings.Contains(lines[2], "Tempo") {
		t.Fatalf("unexpected second row: %s", lines[2])
	}
}

func TestPaceTableEmpty(t *testing.T) {
	lines := PaceTable(paces.Entry{})
	if len(lines) != 1 || !strings.Contains(lines[0], "no pace data") {
		t.Fatalf("unexpected empty output: %v", lines)
	}
}
