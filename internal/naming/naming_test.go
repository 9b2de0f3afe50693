package naming_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipper/internal/naming"
	"clipper/internal/timerange"
)

func mustRange(t *testing.T, spec string) timerange.ClipRange {
	t.Helper()
	ranges, err := timerange.ParseList(spec)
	if err != nil {
		t.Fatalf("parse %q: %v", spec, err)
	}
	return ranges[0]
}

func TestOutputPathPattern(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	resolver, err := naming.NewResolver(dir, "mp4", now)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	path := resolver.OutputPath(mustRange(t, "10-30"))
	want := filepath.Join(dir, "clip_10_30_20260314_092653.mp4")
	if path != want {
		t.Fatalf("unexpected path %q, want %q", path, want)
	}
}

func TestOutputPathDuplicateRangesGetSuffixes(t *testing.T) {
	resolver, err := naming.NewResolver(t.TempDir(), "mp4", time.Now())
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	clip := mustRange(t, "10-30")
	first := resolver.OutputPath(clip)
	second := resolver.OutputPath(clip)
	third := resolver.OutputPath(clip)

	if first == second || second == third || first == third {
		t.Fatalf("expected distinct paths, got %q %q %q", first, second, third)
	}
	if !strings.HasSuffix(second, "_2.mp4") || !strings.HasSuffix(third, "_3.mp4") {
		t.Fatalf("expected numeric suffixes, got %q %q", second, third)
	}
}

func TestOutputPathAvoidsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	resolver, err := naming.NewResolver(dir, "mp4", now)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	occupied := filepath.Join(dir, "clip_10_30_20260314_092653.mp4")
	if err := os.WriteFile(occupied, nil, 0o644); err != nil {
		t.Fatalf("write occupied: %v", err)
	}

	path := resolver.OutputPath(mustRange(t, "10-30"))
	if path == occupied {
		t.Fatalf("resolver claimed an existing file: %q", path)
	}
}

func TestNewResolverCreatesOutDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "clips", "nested")
	resolver, err := naming.NewResolver(dir, "", time.Now())
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	info, err := os.Stat(resolver.OutDir())
	if err != nil || !info.IsDir() {
		t.Fatalf("expected created directory, err=%v", err)
	}
	if resolver.Format() != "mp4" {
		t.Fatalf("expected default format mp4, got %q", resolver.Format())
	}
}

func TestOutputPathFractionalBoundaries(t *testing.T) {
	resolver, err := naming.NewResolver(t.TempDir(), "mkv", time.Now())
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}
	path := resolver.OutputPath(mustRange(t, "1.5-3.25"))
	if !strings.Contains(filepath.Base(path), "clip_1.5_3.25_") {
		t.Fatalf("expected fractional boundaries in name, got %q", path)
	}
	if !strings.HasSuffix(path, ".mkv") {
		t.Fatalf("expected mkv extension, got %q", path)
	}
}
