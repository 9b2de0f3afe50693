package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"clipper/internal/cut"
	"clipper/internal/fileutil"
	"clipper/internal/services"
	"clipper/internal/timerange"
)

// Request describes a single bounded cut.
type Request struct {
	SourcePath string
	Range      timerange.ClipRange
	Strategy   cut.Strategy
	OutputPath string
}

// Cutter executes one cut per call. Implementations must only materialize
// OutputPath on success.
type Cutter interface {
	Cut(ctx context.Context, req Request) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
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

// Client wraps the ffmpeg CLI.
type Client struct {
	binary     string
	cutTimeout time.Duration
	exec       Executor
}

// New constructs an ffmpeg client.
func New(binary string, cutTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:     binary,
		cutTimeout: time.Duration(cutTimeoutSeconds) * time.Second,
		exec:       commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Cut runs ffmpeg for the requested range. Output is written to a temporary
// sibling and committed atomically, so cancellation or failure never leaves
// a partial file at the final path.
func (c *Client) Cut(ctx context.Context, req Request) error {
	if req.SourcePath == "" {
		return errors.New("source path required")
	}
	if req.OutputPath == "" {
		return errors.New("output path required")
	}
	if req.Strategy == cut.FastCopy {
		if err := CheckContainer(req.SourcePath, req.OutputPath); err != nil {
			return err
		}
	}

	cutCtx := ctx
	if c.cutTimeout > 0 {
		var cancel context.CancelFunc
		cutCtx, cancel = context.WithTimeout(ctx, c.cutTimeout)
		defer cancel()
	}

	tempPath := fileutil.PartPath(req.OutputPath)
	args := buildArgs(req, tempPath)

	var tail outputTail
	if err := c.exec.Run(cutCtx, c.binary, args, tail.observe); err != nil {
		fileutil.Discard(tempPath)
		return classify(cutCtx, req.Strategy, err, tail.String())
	}

	if err := fileutil.Commit(tempPath, req.OutputPath); err != nil {
		return services.Wrap(services.ErrTransient, "ffmpeg", "commit output", "failed to move finished clip into place", err)
	}
	return nil
}

// buildArgs assembles the ffmpeg invocation. For FastCopy the seek goes
// before the input so ffmpeg jumps to the nearest keyframe; for Reencode the
// seek is input-relative and the bounded segment is re-encoded to H.264/AAC.
func buildArgs(req Request, tempPath string) []string {
	start := formatSeconds(req.Range.StartSeconds())
	duration := formatSeconds(req.Range.Length().Seconds())
	muxer := muxerName(req.OutputPath)

	if req.Strategy == cut.Reencode {
		args := []string{
			"-hide_banner", "-nostdin", "-y",
			"-i", req.SourcePath,
			"-ss", start,
			"-t", duration,
			"-c:v", "libx264",
			"-c:a", "aac",
		}
		if muxer == "mp4" || muxer == "mov" {
			args = append(args, "-movflags", "+faststart")
		}
		return append(args, "-f", muxer, tempPath)
	}
	return []string{
		"-hide_banner", "-nostdin", "-y",
		"-ss", start,
		"-i", req.SourcePath,
		"-t", duration,
		"-c", "copy",
		"-f", muxer, tempPath,
	}
}

// muxerName maps the final output extension to the ffmpeg muxer. The temp
// file carries a .part suffix, so the format cannot be inferred from it.
func muxerName(outputPath string) string {
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".") {
	case "mkv":
		return "matroska"
	case "webm":
		return "webm"
	case "mov":
		return "mov"
	case "avi":
		return "avi"
	default:
		return "mp4"
	}
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

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

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
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
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onOutput != nil {
				onOutput(scanner.Text())
			}
		}
	}
	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	return cmd.Wait()
}
