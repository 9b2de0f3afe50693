package timerange

import (
	"fmt"
	"strings"
)

// Violation identifies why a raw range expression was rejected.
type Violation string

const (
	NonNumeric       Violation = "non_numeric"
	EndNotAfterStart Violation = "end_not_after_start"
	NegativeStart    Violation = "negative_start"
	Empty            Violation = "empty"
)

// ParseError reports a single rejected range expression.
type ParseError struct {
	Raw       string
	Violation Violation
	cause     error
}

func (e *ParseError) Error() string {
	switch e.Violation {
	case EndNotAfterStart:
		return fmt.Sprintf("invalid range %q: end must be greater than start", e.Raw)
	case NegativeStart:
		return fmt.Sprintf("invalid range %q: timestamps must be non-negative", e.Raw)
	case Empty:
		return "no clip ranges provided"
	default:
		return fmt.Sprintf("invalid range %q: use start-end in seconds, e.g. 10-30", e.Raw)
	}
}

func (e *ParseError) Unwrap() error { return e.cause }

// ParseErrors aggregates every rejected entry from a single input so the user
// sees all problems at once.
type ParseErrors []*ParseError

func (e ParseErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	lines := make([]string, 0, len(e))
	for _, perr := range e {
		lines = append(lines, perr.Error())
	}
	return fmt.Sprintf("%d invalid clip ranges:\n  %s", len(e), strings.Join(lines, "\n  "))
}
