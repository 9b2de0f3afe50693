// Package logging centralizes slog construction and the structured field
// conventions used across clipper.
//
// New builds a console or JSON logger from config values. Context helpers
// thread run and job identifiers into every stage of a batch so a single
// run's records correlate across components.
package logging
