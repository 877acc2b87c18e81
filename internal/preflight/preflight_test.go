package preflight_test

import (
	"os"
	"path/filepath"
	"testing"

	"ocrprep/internal/preflight"
	"ocrprep/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := preflight.CheckDirectoryAccess("Data directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for %s: %s", dir, result.Detail)
	}

	result = preflight.CheckDirectoryAccess("Data directory", filepath.Join(dir, "absent"))
	if result.Passed {
		t.Fatal("expected failure for missing directory")
	}
}

func TestCheckInputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.csv")

	if result := preflight.CheckInputFile("Labels CSV", path); result.Passed {
		t.Fatal("expected failure for missing file")
	}

	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if result := preflight.CheckInputFile("Labels CSV", path); result.Passed {
		t.Fatal("expected failure for empty file")
	}

	if err := os.WriteFile(path, []byte("path,label\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if result := preflight.CheckInputFile("Labels CSV", path); !result.Passed {
		t.Fatalf("expected pass: %s", result.Detail)
	}
}

func TestFirstFailureReportsConvertChecks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	// CSV and extract dir are absent, so convert preflight must fail.
	if err := preflight.FirstFailure(preflight.ForConvert(cfg)); err == nil {
		t.Fatal("expected convert preflight to fail without inputs")
	}

	// Fetch only needs the data directory.
	if err := preflight.FirstFailure(preflight.ForFetch(cfg)); err != nil {
		t.Fatalf("fetch preflight failed: %v", err)
	}
}
