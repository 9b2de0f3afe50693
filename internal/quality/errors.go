package quality

import (
	"fmt"
	"strings"

	"clipper/internal/cut"
)

// MismatchError reports that the requested height is absent from the source.
// It aborts the whole run: substituting quality silently would make output
// non-deterministic relative to user intent.
type MismatchError struct {
	Requested int
	Strategy  cut.Strategy
	Available []int // descending, for the active strategy
	Other     []int // descending, all video heights (FastCopy only)
}

func (e *MismatchError) Error() string {
	if e.Strategy == cut.Reencode {
		return fmt.Sprintf(
			"requested %dp is not available; available video heights: %s; use --height to pick one",
			e.Requested, heightList(e.Available),
		)
	}
	return fmt.Sprintf(
		"requested %dp is not available for fast clipping; available H.264 MP4 heights: %s; other video heights: %s; use --height to choose an available H.264 MP4 height, or try --reencode for non-H.264 sources",
		e.Requested, heightList(e.Available), heightList(e.Other),
	)
}

func heightList(heights []int) string {
	if len(heights) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(heights))
	for _, h := range heights {
		parts = append(parts, fmt.Sprintf("%d", h))
	}
	return strings.Join(parts, ", ")
}
