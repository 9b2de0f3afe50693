package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	jobIndexKey contextKey = "job_index"
	phaseKey    contextKey = "phase"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithJobIndex annotates context with the 1-based cut job index.
func WithJobIndex(ctx context.Context, index int) context.Context {
	if index <= 0 {
		return ctx
	}
	return context.WithValue(ctx, jobIndexKey, index)
}

// JobIndexFromContext extracts the cut job index if present.
func JobIndexFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(jobIndexKey).(int); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// WithPhase annotates context with the run phase name.
func WithPhase(ctx context.Context, phase string) context.Context {
	if phase == "" {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the run phase name if present.
func PhaseFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(phaseKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
