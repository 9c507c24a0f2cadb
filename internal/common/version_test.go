package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadVersionFile_OnlyFillsDefaults(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })

	Version, Build, GitCommit = "dev", "2026-01-02", "unknown"

	path := filepath.Join(t.TempDir(), ".version")
	content := "# generated\nversion: 1.4.0\nbuild: 2030-01-01\ncommit: abc1234\nnot a pair\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write version file: %v", err)
	}

	loadVersionFile(path)

	if Version != "1.4.0" {
		t.Errorf("Version = %q, want 1.4.0", Version)
	}
	if Build != "2026-01-02" {
		t.Errorf("Build = %q, want ldflags value kept", Build)
	}
	if GitCommit != "abc1234" {
		t.Errorf("GitCommit = %q, want abc1234", GitCommit)
	}
	if got := GetFullVersion(); got != "1.4.0 (build: 2026-01-02, commit: abc1234)" {
		t.Errorf("GetFullVersion() = %q", got)
	}
}

func TestLoadVersionFile_Missing(t *testing.T) {
	origVersion := Version
	t.Cleanup(func() { Version = origVersion })
	Version = "dev"

	loadVersionFile(filepath.Join(t.TempDir(), "nope"))

	if Version != "dev" {
		t.Errorf("Version = %q, want dev", Version)
	}
}
