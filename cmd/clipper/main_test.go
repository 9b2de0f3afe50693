package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipper/internal/services"
	"clipper/internal/timerange"
)

func TestExitCodeFor(t *testing.T) {
	if code := exitCodeFor(nil); code != exitOK {
		t.Fatalf("nil error must exit %d, got %d", exitOK, code)
	}

	_, parseErr := timerange.ParseList("abc,5-2")
	if code := exitCodeFor(parseErr); code != exitValidation {
		t.Fatalf("range parse failure must exit %d, got %d", exitValidation, code)
	}

	flagErr := services.Wrap(services.ErrValidation, "cli", "parse flags", "conflict", nil)
	if code := exitCodeFor(flagErr); code != exitValidation {
		t.Fatalf("flag conflict must exit %d, got %d", exitValidation, code)
	}

	toolErr := services.Wrap(services.ErrExternalTool, "ffmpeg", "cut", "boom", nil)
	if code := exitCodeFor(toolErr); code != exitFailure {
		t.Fatalf("tool failure must exit %d, got %d", exitFailure, code)
	}

	if code := exitCodeFor(errors.New("plain")); code != exitFailure {
		t.Fatalf("unclassified failure must exit %d, got %d", exitFailure, code)
	}
}

func TestResolveClipsPositional(t *testing.T) {
	clips, err := resolveClips([]string{"https://example.test/v", "10", "30"}, "")
	if err != nil {
		t.Fatalf("positional pair: %v", err)
	}
	if len(clips) != 1 || clips[0].String() != "10-30" {
		t.Fatalf("unexpected clips: %v", clips)
	}
}

func TestResolveClipsList(t *testing.T) {
	clips, err := resolveClips([]string{"https://example.test/v"}, "10-30, 120-150")
	if err != nil {
		t.Fatalf("clips flag: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(clips))
	}
}

func TestResolveClipsRejectsBothSources(t *testing.T) {
	_, err := resolveClips([]string{"https://example.test/v", "10", "30"}, "10-30")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveClipsRejectsDanglingStart(t *testing.T) {
	_, err := resolveClips([]string{"https://example.test/v", "10"}, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveClipsRequiresRanges(t *testing.T) {
	_, err := resolveClips([]string{"https://example.test/v"}, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveClipsCollectsEveryBadEntry(t *testing.T) {
	_, err := resolveClips([]string{"https://example.test/v"}, "abc,5-2,-3-4")
	var parseErrs timerange.ParseErrors
	if !errors.As(err, &parseErrs) {
		t.Fatalf("expected aggregated parse errors, got %v", err)
	}
	if len(parseErrs) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(parseErrs), err)
	}
}

func TestUnionDescending(t *testing.T) {
	got := unionDescending([]int{720, 1080}, []int{1080, 480, 2160})
	want := []int{2160, 1080, 720, 480}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("yt-dlp", statusOK, "found", false)
	if !strings.Contains(line, "[OK]") || !strings.Contains(line, "yt-dlp:") {
		t.Fatalf("unexpected status line %q", line)
	}
	colored := renderStatusLine("ffmpeg", statusError, "missing", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected colored line, got %q", colored)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, nil)
	if !strings.Contains(out, "only") {
		t.Fatalf("row missing from table:\n%s", out)
	}
}

func writeMissingToolsConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "clipper.toml")
	content := "[output]\n" +
		"dir = \"" + filepath.Join(dir, "clips") + "\"\n\n" +
		"[tools]\n" +
		"ytdlp = \"clipper-test-missing-ytdlp\"\n" +
		"ffmpeg = \"clipper-test-missing-ffmpeg\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestClipRunFailsBeforeAnyWorkWhenToolsMissing(t *testing.T) {
	cfgPath := writeMissingToolsConfig(t)

	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"https://example.test/watch?v=abc", "10", "30", "--config", cfgPath})

	err := cmd.Execute()
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("missing tools must surface as a configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing dependencies") {
		t.Fatalf("error should name the missing dependencies, got %v", err)
	}
	if code := exitCodeFor(err); code != exitFailure {
		t.Fatalf("missing tools exit %d, got %d", exitFailure, code)
	}
}

func TestFormatsFailsBeforeProbeWhenToolsMissing(t *testing.T) {
	cfgPath := writeMissingToolsConfig(t)

	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"formats", "https://example.test/watch?v=abc", "--config", cfgPath})

	err := cmd.Execute()
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("missing tools must surface as a configuration error, got %v", err)
	}
}
