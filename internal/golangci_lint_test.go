package internal

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/Iron-Ham/chessbridge/internal/testutil"
)

// projectRoot returns the module root whether tests run from internal/ or
// from the root itself.
func projectRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if filepath.Base(wd) == "internal" {
		return filepath.Dir(wd)
	}
	return wd
}

// TestGolangciLintCompliance runs golangci-lint over the module.
// If this test fails, run: golangci-lint run
//
// Skipped when golangci-lint is not installed.
func TestGolangciLintCompliance(t *testing.T) {
	testutil.SkipIfNoGolangciLint(t)

	// A per-test build cache keeps the run working where the shared cache
	// is read-only.
	cmd := exec.Command("golangci-lint", "run", "--allow-parallel-runners", "./...")
	cmd.Dir = projectRoot(t)
	cmd.Env = append(os.Environ(), "GOCACHE="+t.TempDir())
	output, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("golangci-lint found issues:\n%s", output)
		t.Errorf("\nRun 'golangci-lint run' to see all issues and fix them.")
	}
}
