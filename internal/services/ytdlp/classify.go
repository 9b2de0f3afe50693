package ytdlp

import (
	"context"
	"errors"
	"strings"

	"clipper/internal/services"
)

// classify maps a yt-dlp failure to the acquisition error taxonomy using the
// tool's final output lines. yt-dlp reports most conditions as "ERROR:"
// prefixed text rather than distinct exit codes.
func classify(ctx context.Context, operation string, err error, tail string) error {
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "yt-dlp", operation, "deadline exceeded", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	lowered := strings.ToLower(tail)
	switch {
	case containsAny(lowered,
		"video unavailable",
		"private video",
		"account associated with this video has been terminated",
		"removed by the uploader"):
		return services.Wrap(services.ErrUnavailable, "yt-dlp", operation, "source video is unavailable", err)
	case containsAny(lowered,
		"404",
		"not found",
		"does not exist",
		"unable to extract video data",
		"is not a valid url",
		"unsupported url"):
		return services.Wrap(services.ErrNotFound, "yt-dlp", operation, "source video was not found", err)
	case containsAny(lowered,
		"unable to download",
		"connection refused",
		"connection reset",
		"network is unreachable",
		"temporary failure in name resolution",
		"timed out",
		"getaddrinfo"):
		return services.Wrap(services.ErrNetwork, "yt-dlp", operation, "network failure talking to the source", err)
	default:
		detail := "yt-dlp failed"
		if tail != "" {
			detail += ": " + lastLine(tail)
		}
		return services.Wrap(services.ErrExternalTool, "yt-dlp", operation, detail, err)
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

func lastLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
