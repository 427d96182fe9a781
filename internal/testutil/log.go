package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteLog writes lines (newline-terminated) to a file under dir and
// returns its path. Used to fabricate simulator logs for extraction and
// diff tests.
func WriteLog(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write log %s: %v", path, err)
	}
	return path
}
