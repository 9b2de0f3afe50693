package timerange

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ClipRange is a validated, immutable start/end pair within a source video.
type ClipRange struct {
	start time.Duration
	end   time.Duration
}

// New validates the endpoints and returns a ClipRange. The raw text is only
// used for error reporting.
func New(start, end time.Duration, raw string) (ClipRange, error) {
	if start < 0 {
		return ClipRange{}, &ParseError{Raw: raw, Violation: NegativeStart}
	}
	if end <= start {
		return ClipRange{}, &ParseError{Raw: raw, Violation: EndNotAfterStart}
	}
	return ClipRange{start: start, end: end}, nil
}

// Start returns the clip start offset.
func (r ClipRange) Start() time.Duration { return r.start }

// End returns the clip end offset.
func (r ClipRange) End() time.Duration { return r.end }

// Length returns the clip duration.
func (r ClipRange) Length() time.Duration { return r.end - r.start }

// StartSeconds returns the start offset in seconds.
func (r ClipRange) StartSeconds() float64 { return r.start.Seconds() }

// EndSeconds returns the end offset in seconds.
func (r ClipRange) EndSeconds() float64 { return r.end.Seconds() }

// String renders the range the way it is written on the command line.
func (r ClipRange) String() string {
	return FormatSeconds(r.StartSeconds()) + "-" + FormatSeconds(r.EndSeconds())
}

// FormatSeconds renders a second count without trailing zeros, matching the
// form users type ("10", "10.5").
func FormatSeconds(seconds float64) string {
	if seconds == math.Trunc(seconds) {
		return strconv.FormatInt(int64(seconds), 10)
	}
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}

// ParsePair parses one range supplied as two explicit values (the positional
// CLI form).
func ParsePair(startText, endText string) (ClipRange, error) {
	raw := strings.TrimSpace(startText) + "-" + strings.TrimSpace(endText)
	start, err := parseSeconds(startText, raw)
	if err != nil {
		return ClipRange{}, err
	}
	end, err := parseSeconds(endText, raw)
	if err != nil {
		return ClipRange{}, err
	}
	return New(start, end, raw)
}

// ParseList parses a delimited list like "10-30,120-150" into ranges.
// Validation is collect-all: every invalid entry is reported, and valid
// entries are still returned in input order. Duplicate ranges are permitted.
func ParseList(spec string) ([]ClipRange, error) {
	items := splitEntries(spec)
	if len(items) == 0 {
		return nil, ParseErrors{&ParseError{Raw: spec, Violation: Empty}}
	}

	ranges := make([]ClipRange, 0, len(items))
	var errs ParseErrors
	for _, item := range items {
		r, err := parseEntry(item)
		if err != nil {
			errs = append(errs, asParseError(item, err))
			continue
		}
		ranges = append(ranges, r)
	}
	if len(errs) > 0 {
		return ranges, errs
	}
	return ranges, nil
}

func parseEntry(item string) (ClipRange, error) {
	startText, endText, found := strings.Cut(item, "-")
	if !found {
		return ClipRange{}, &ParseError{Raw: item, Violation: NonNumeric}
	}
	start, err := parseSeconds(startText, item)
	if err != nil {
		return ClipRange{}, err
	}
	end, err := parseSeconds(endText, item)
	if err != nil {
		return ClipRange{}, err
	}
	return New(start, end, item)
}

func parseSeconds(text, raw string) (time.Duration, error) {
	text = strings.TrimSpace(text)
	if text == "" || strings.Contains(text, ":") {
		return 0, &ParseError{Raw: raw, Violation: NonNumeric}
	}
	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &ParseError{Raw: raw, Violation: NonNumeric}
	}
	if seconds < 0 {
		return 0, &ParseError{Raw: raw, Violation: NegativeStart}
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func splitEntries(spec string) []string {
	parts := strings.Split(spec, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func asParseError(raw string, err error) *ParseError {
	if perr, ok := err.(*ParseError); ok {
		return perr
	}
	return &ParseError{Raw: raw, Violation: NonNumeric, cause: fmt.Errorf("parse %q: %w", raw, err)}
}
