package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// BaseName is the fixed base filename for exported calendars.
const BaseName = "plan"

// WriteFile writes export content to dir as "<base>.<ext>" and returns the
// written path.
func WriteFile(dir, base, ext, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, base+"."+ext)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
