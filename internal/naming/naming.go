package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"clipper/internal/fileutil"
	"clipper/internal/timerange"
)

// timestampLayout matches the per-run stamp embedded in output names.
const timestampLayout = "20060102_150405"

// Resolver computes deterministic, collision-free output paths for one batch.
// Duplicate ranges in the same run receive _2, _3... suffixes. All methods
// are goroutine-safe.
type Resolver struct {
	outDir string
	format string
	stamp  string

	mu      sync.Mutex
	claimed map[string]int // base path -> next dup counter
}

// NewResolver ensures outDir exists and returns a resolver stamped with the
// generation time.
func NewResolver(outDir, format string, now time.Time) (*Resolver, error) {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	if err := fileutil.EnsureDir(abs); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	format = strings.TrimPrefix(strings.TrimSpace(format), ".")
	if format == "" {
		format = "mp4"
	}
	return &Resolver{
		outDir:  abs,
		format:  format,
		stamp:   now.Format(timestampLayout),
		claimed: make(map[string]int),
	}, nil
}

// OutDir returns the absolute output directory.
func (r *Resolver) OutDir() string { return r.outDir }

// Format returns the output container extension without the dot.
func (r *Resolver) Format() string { return r.format }

// OutputPath claims and returns the absolute output path for a clip range,
// following the clip_<start>_<end>_<timestamp>.<format> pattern.
func (r *Resolver) OutputPath(clip timerange.ClipRange) string {
	stem := fmt.Sprintf("clip_%s_%s_%s",
		timerange.FormatSeconds(clip.StartSeconds()),
		timerange.FormatSeconds(clip.EndSeconds()),
		r.stamp,
	)
	base := filepath.Join(r.outDir, stem+"."+r.format)

	r.mu.Lock()
	defer r.mu.Unlock()

	counter, seen := r.claimed[base]
	if !seen && !fileutil.Exists(base) {
		r.claimed[base] = 2
		return base
	}
	if counter < 2 {
		counter = 2
	}
	for {
		candidate := filepath.Join(r.outDir, fmt.Sprintf("%s_%d.%s", stem, counter, r.format))
		counter++
		if _, taken := r.claimed[candidate]; taken || fileutil.Exists(candidate) {
			continue
		}
		r.claimed[base] = counter
		r.claimed[candidate] = 1
		return candidate
	}
}
