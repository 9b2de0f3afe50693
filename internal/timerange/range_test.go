package timerange_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"clipper/internal/timerange"
)

func TestParseListValidEntries(t *testing.T) {
	ranges, err := timerange.ParseList("10-30,120-150")
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(ranges))
	}
	if ranges[0].Start() != 10*time.Second || ranges[0].End() != 30*time.Second {
		t.Fatalf("unexpected first range: %v", ranges[0])
	}
	if ranges[1].Length() != 30*time.Second {
		t.Fatalf("unexpected second length: %v", ranges[1].Length())
	}
}

func TestParseListPreservesOrderAndDuplicates(t *testing.T) {
	ranges, err := timerange.ParseList("5-10, 5-10 ,1-2")
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	if len(ranges) != 3 {
		t.Fatalf("expected duplicates kept, got %d ranges", len(ranges))
	}
	if ranges[2].Start() != time.Second {
		t.Fatalf("order not preserved: %v", ranges[2])
	}
}

func TestParseListFractionalSeconds(t *testing.T) {
	ranges, err := timerange.ParseList("1.5-3.25")
	if err != nil {
		t.Fatalf("ParseList returned error: %v", err)
	}
	if ranges[0].Start() != 1500*time.Millisecond {
		t.Fatalf("unexpected fractional start: %v", ranges[0].Start())
	}
	if ranges[0].String() != "1.5-3.25" {
		t.Fatalf("unexpected render: %q", ranges[0].String())
	}
}

func TestParseListCollectsEveryViolation(t *testing.T) {
	ranges, err := timerange.ParseList("10-5,abc-30,20-40,-1-3")
	if err == nil {
		t.Fatal("expected error for invalid entries")
	}
	var errs timerange.ParseErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected ParseErrors, got %T", err)
	}
	if len(errs) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(errs), errs)
	}
	if errs[0].Violation != timerange.EndNotAfterStart {
		t.Fatalf("unexpected first violation: %v", errs[0].Violation)
	}
	if errs[1].Violation != timerange.NonNumeric {
		t.Fatalf("unexpected second violation: %v", errs[1].Violation)
	}
	if len(ranges) != 1 || ranges[0].End() != 40*time.Second {
		t.Fatalf("expected the one valid range to survive, got %v", ranges)
	}
	if !strings.Contains(err.Error(), "3 invalid clip ranges") {
		t.Fatalf("expected aggregate message, got %q", err.Error())
	}
}

func TestParseListEmpty(t *testing.T) {
	_, err := timerange.ParseList(" , ,")
	var errs timerange.ParseErrors
	if !errors.As(err, &errs) || errs[0].Violation != timerange.Empty {
		t.Fatalf("expected empty violation, got %v", err)
	}
}

func TestParsePair(t *testing.T) {
	r, err := timerange.ParsePair("90", "150")
	if err != nil {
		t.Fatalf("ParsePair returned error: %v", err)
	}
	if r.Length() != time.Minute {
		t.Fatalf("unexpected length: %v", r.Length())
	}
}

func TestParsePairRejectsColonTimestamps(t *testing.T) {
	_, err := timerange.ParsePair("1:30", "2:00")
	var perr *timerange.ParseError
	if !errors.As(err, &perr) || perr.Violation != timerange.NonNumeric {
		t.Fatalf("expected non-numeric violation, got %v", err)
	}
}

func TestParsePairRejectsEqualEndpoints(t *testing.T) {
	_, err := timerange.ParsePair("30", "30")
	var perr *timerange.ParseError
	if !errors.As(err, &perr) || perr.Violation != timerange.EndNotAfterStart {
		t.Fatalf("expected end-not-after-start, got %v", err)
	}
}

func TestNewRejectsNegativeStart(t *testing.T) {
	_, err := timerange.New(-time.Second, time.Second, "-1-1")
	var perr *timerange.ParseError
	if !errors.As(err, &perr) || perr.Violation != timerange.NegativeStart {
		t.Fatalf("expected negative-start violation, got %v", err)
	}
}
