package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"clipper/internal/config"
)

func TestCheckDirectoryAccessExisting(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Output directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for writable temp dir, got %+v", result)
	}
}

func TestCheckDirectoryAccessMissingCreatable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-yet")
	result := CheckDirectoryAccess("Output directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for creatable dir, got %+v", result)
	}
}

func TestCheckDirectoryAccessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("Output directory", path)
	if result.Passed {
		t.Fatalf("expected failure for regular file, got %+v", result)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	result := CheckFreeSpace("Output free space", t.TempDir())
	if result.Detail == "" {
		t.Fatal("expected detail with free space figure")
	}
}

func TestRunAllIncludesCacheWhenEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(t.TempDir(), "probe.db")

	withCache := len(RunAll(&cfg))
	cfg.Cache.Enabled = false
	withoutCache := len(RunAll(&cfg))
	if withCache != withoutCache+1 {
		t.Fatalf("expected one extra check with cache enabled, got %d vs %d", withCache, withoutCache)
	}
}

func TestPassed(t *testing.T) {
	if !Passed([]Result{{Passed: true}, {Passed: true}}) {
		t.Fatal("expected all-pass to report true")
	}
	if Passed([]Result{{Passed: true}, {Passed: false}}) {
		t.Fatal("expected any failure to report false")
	}
}
