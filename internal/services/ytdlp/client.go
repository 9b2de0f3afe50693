package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"clipper/internal/services"
)

// ProbeResult reports the heights available for a source video. Heights are
// sorted ascending. H264MP4 is the subset usable for stream-copy clipping.
type ProbeResult struct {
	H264MP4 []int
	All     []int
}

// Prober enumerates available source qualities.
type Prober interface {
	Probe(ctx context.Context, url string) (ProbeResult, error)
}

// Downloader materializes the source video locally.
type Downloader interface {
	Download(ctx context.Context, url string, selection FormatSelection, destDir string) (string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary          string
	probeTimeout    time.Duration
	downloadTimeout time.Duration
	exec            Executor
}

// New constructs a yt-dlp client.
func New(binary string, probeTimeoutSeconds, downloadTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:          binary,
		probeTimeout:    time.Duration(probeTimeoutSeconds) * time.Second,
		downloadTimeout: time.Duration(downloadTimeoutSeconds) * time.Second,
		exec:            commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Probe runs yt-dlp -J and extracts the available video heights.
func (c *Client) Probe(ctx context.Context, url string) (ProbeResult, error) {
	if strings.TrimSpace(url) == "" {
		return ProbeResult{}, errors.New("video URL required")
	}

	probeCtx := ctx
	if c.probeTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, c.probeTimeout)
		defer cancel()
	}

	args := []string{"-J", "--no-warnings", "--no-playlist", url}
	var stdout strings.Builder
	var tail outputTail
	err := c.exec.Run(probeCtx, c.binary, args, func(line string) {
		stdout.WriteString(line)
		stdout.WriteByte('\n')
		tail.observe(line)
	})
	if err != nil {
		return ProbeResult{}, classify(probeCtx, "probe formats", err, tail.String())
	}

	result, err := parseProbeOutput([]byte(stdout.String()))
	if err != nil {
		return ProbeResult{}, services.Wrap(services.ErrExternalTool, "yt-dlp", "probe formats", "failed to parse format data", err)
	}
	return result, nil
}

// Download fetches the source at the selected format into destDir and
// returns the resulting file path.
func (c *Client) Download(ctx context.Context, url string, selection FormatSelection, destDir string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.New("video URL required")
	}
	if strings.TrimSpace(destDir) == "" {
		return "", errors.New("destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination: %w", err)
	}

	dlCtx := ctx
	if c.downloadTimeout > 0 {
		var cancel context.CancelFunc
		dlCtx, cancel = context.WithTimeout(ctx, c.downloadTimeout)
		defer cancel()
	}

	template := filepath.Join(destDir, "source.%(ext)s")
	args := []string{"-f", selection.Selector, "-o", template, "--no-playlist"}
	if selection.MergeFormat != "" {
		args = append(args, "--merge-output-format", selection.MergeFormat)
	}
	args = append(args, url)

	var tail outputTail
	if err := c.exec.Run(dlCtx, c.binary, args, tail.observe); err != nil {
		return "", classify(dlCtx, "download source", err, tail.String())
	}

	candidates, err := filepath.Glob(filepath.Join(destDir, "source.*"))
	if err != nil {
		return "", fmt.Errorf("inspect download outputs: %w", err)
	}
	// yt-dlp leaves .part files behind when interrupted.
	files := candidates[:0]
	for _, candidate := range candidates {
		if !strings.HasSuffix(candidate, ".part") {
			files = append(files, candidate)
		}
	}
	if len(files) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "yt-dlp", "download source", "download succeeded but no source file was found", nil)
	}
	sort.Strings(files)
	return files[0], nil
}

// outputTail retains the last few output lines for error reporting.
type outputTail struct {
	lines []string
}

func (t *outputTail) observe(line string) {
	const keep = 12
	t.lines = append(t.lines, line)
	if len(t.lines) > keep {
		t.lines = t.lines[len(t.lines)-keep:]
	}
}

func (t *outputTail) String() string {
	return strings.Join(t.lines, "\n")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			if onStdout != nil {
				onStdout(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return err
	}
	return scanErr
}
