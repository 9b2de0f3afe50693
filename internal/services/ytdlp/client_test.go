package ytdlp_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipper/internal/cut"
	"clipper/internal/services"
	"clipper/internal/services/ytdlp"
)

type fakeExecutor struct {
	lines  []string
	err    error
	binary string
	args   []string
	onRun  func(args []string)
	runs   int
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string, onStdout func(string)) error {
	f.binary = binary
	f.args = args
	f.runs++
	if f.onRun != nil {
		f.onRun(args)
	}
	for _, line := range f.lines {
		onStdout(line)
	}
	return f.err
}

const probeJSON = `{"formats":[` +
	`{"height":360,"vcodec":"avc1.42001E","ext":"mp4"},` +
	`{"height":720,"vcodec":"avc1.64001F","ext":"mp4"},` +
	`{"height":720,"vcodec":"vp9","ext":"webm"},` +
	`{"height":1080,"vcodec":"av01.0.08M.08","ext":"mp4"},` +
	`{"height":0,"vcodec":"avc1.42001E","ext":"mp4"},` +
	`{"vcodec":"none","ext":"m4a"}` +
	`]}`

func TestProbeParsesHeightSets(t *testing.T) {
	exec := &fakeExecutor{lines: []string{probeJSON}}
	client, err := ytdlp.New("yt-dlp", 0, 0, ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := client.Probe(context.Background(), "https://example.test/v")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if got, want := fmt.Sprint(result.H264MP4), "[360 720]"; got != want {
		t.Fatalf("H264MP4 = %s, want %s", got, want)
	}
	if got, want := fmt.Sprint(result.All), "[360 720 1080]"; got != want {
		t.Fatalf("All = %s, want %s", got, want)
	}
	if exec.args[0] != "-J" {
		t.Fatalf("expected -J probe, got args %v", exec.args)
	}
}

func TestProbeToleratesNoiseAroundJSON(t *testing.T) {
	exec := &fakeExecutor{lines: []string{"WARNING: something", probeJSON}}
	client, _ := ytdlp.New("yt-dlp", 0, 0, ytdlp.WithExecutor(exec))

	result, err := client.Probe(context.Background(), "https://example.test/v")
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if len(result.All) != 3 {
		t.Fatalf("unexpected heights: %v", result.All)
	}
}

func TestProbeClassifiesUnavailable(t *testing.T) {
	exec := &fakeExecutor{
		lines: []string{"ERROR: Video unavailable"},
		err:   errors.New("exit status 1"),
	}
	client, _ := ytdlp.New("yt-dlp", 0, 0, ytdlp.WithExecutor(exec))

	_, err := client.Probe(context.Background(), "https://example.test/v")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable marker, got %v", err)
	}
}

func TestProbeClassifiesNotFound(t *testing.T) {
	exec := &fakeExecutor{
		lines: []string{"ERROR: Unable to extract video data"},
		err:   errors.New("exit status 1"),
	}
	client, _ := ytdlp.New("yt-dlp", 0, 0, ytdlp.WithExecutor(exec))

	_, err := client.Probe(context.Background(), "https://example.test/v")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}

func TestProbeClassifiesNetworkFailure(t *testing.T) {
	exec := &fakeExecutor{
		lines: []string{"ERROR: Unable to download webpage: <urlopen error timed out>"},
		err:   errors.New("exit status 1"),
	}
	client, _ := ytdlp.New("yt-dlp", 0, 0, ytdlp.WithExecutor(exec))

	_, err := client.Probe(context.Background(), "https://example.test/v")
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network marker, got %v", err)
	}
}

func TestDownloadReturnsSourceFile(t *testing.T) {
	destDir := t.TempDir()
	exec := &fakeExecutor{}
	exec.onRun = func([]string) {
		if err := os.WriteFile(filepath.Join(destDir, "source.mp4"), []byte("video"), 0o644); err != nil {
			t.Fatalf("write source: %v", err)
		}
	}
	client, _ := ytdlp.New("yt-dlp", 0, 0, ytdlp.WithExecutor(exec))

	selection := ytdlp.SelectFormat(720, cut.FastCopy)
	path, err := client.Download(context.Background(), "https://example.test/v", selection, destDir)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if filepath.Base(path) != "source.mp4" {
		t.Fatalf("unexpected source path %q", path)
	}

	joined := strings.Join(exec.args, " ")
	if !strings.Contains(joined, "--merge-output-format mp4") {
		t.Fatalf("expected merge format for fastcopy, args: %v", exec.args)
	}
	if !strings.Contains(joined, "--no-playlist") {
		t.Fatalf("expected --no-playlist, args: %v", exec.args)
	}
}

func TestDownloadIgnoresPartFiles(t *testing.T) {
	destDir := t.TempDir()
	exec := &fakeExecutor{}
	exec.onRun = func([]string) {
		for _, name := range []string{"source.mp4.part", "source.mp4"} {
			if err := os.WriteFile(filepath.Join(destDir, name), []byte("x"), 0o644); err != nil {
				t.Fatalf("write %s: %v", name, err)
			}
		}
	}
	client, _ := ytdlp.New("yt-dlp", 0, 0, ytdlp.WithExecutor(exec))

	path, err := client.Download(context.Background(), "u", ytdlp.SelectFormat(720, cut.Reencode), destDir)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if strings.HasSuffix(path, ".part") {
		t.Fatalf("picked a partial download: %q", path)
	}
}

func TestDownloadNoOutputIsError(t *testing.T) {
	client, _ := ytdlp.New("yt-dlp", 0, 0, ytdlp.WithExecutor(&fakeExecutor{}))
	_, err := client.Download(context.Background(), "u", ytdlp.SelectFormat(720, cut.Reencode), t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestSelectFormat(t *testing.T) {
	fast := ytdlp.SelectFormat(720, cut.FastCopy)
	if !strings.Contains(fast.Selector, "vcodec^=avc1") || fast.MergeFormat != "mp4" {
		t.Fatalf("unexpected fastcopy selection: %+v", fast)
	}
	precise := ytdlp.SelectFormat(1080, cut.Reencode)
	if precise.MergeFormat != "" || !strings.Contains(precise.Selector, "height=1080") {
		t.Fatalf("unexpected reencode selection: %+v", precise)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ytdlp.New("  ", 0, 0); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
