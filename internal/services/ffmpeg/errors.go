package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"clipper/internal/cut"
	"clipper/internal/services"
)

// ErrFastCopyUnsupported marks a structural fast-copy failure: the source
// stream cannot be placed in the requested output container without
// re-encoding. The run never silently upgrades; the user decides.
var ErrFastCopyUnsupported = errors.New("fast copy unsupported")

// CheckContainer rejects a fast copy whose source container differs from the
// requested output format. Stream copy cannot change containers reliably, so
// this is surfaced before ffmpeg runs.
func CheckContainer(sourcePath, outputPath string) error {
	sourceExt := strings.TrimPrefix(strings.ToLower(filepath.Ext(sourcePath)), ".")
	outputExt := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	if sourceExt == outputExt {
		return nil
	}
	return fmt.Errorf(
		"%w: source format %q does not match output %q; retry with --reencode or choose a matching --format",
		ErrFastCopyUnsupported, sourceExt, outputExt,
	)
}

// classify maps an ffmpeg failure to the cut error taxonomy.
func classify(ctx context.Context, strategy cut.Strategy, err error, tail string) error {
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "ffmpeg", "cut", "deadline exceeded", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	if strategy == cut.FastCopy && looksStructural(tail) {
		return fmt.Errorf(
			"%w: stream copy rejected by the output container; retry with --reencode or choose a matching --format: %s",
			ErrFastCopyUnsupported, lastLine(tail),
		)
	}

	detail := "ffmpeg failed while generating clip"
	if tail != "" {
		detail += ": " + lastLine(tail)
	}
	return services.Wrap(services.ErrExternalTool, "ffmpeg", "cut", detail, err)
}

// looksStructural recognizes the muxer complaints ffmpeg emits when a codec
// cannot be stream-copied into the requested container.
func looksStructural(tail string) bool {
	lowered := strings.ToLower(tail)
	for _, marker := range []string{
		"codec not currently supported in container",
		"could not find tag for codec",
		"could not write header",
		"incorrect codec parameters",
		"muxer does not support",
	} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
