// Package timerange parses and validates the start/end pairs that define
// requested clips.
//
// Parsing is collect-all rather than fail-fast: ParseList reports every
// rejected entry in one ParseErrors value so a user fixes all problems in a
// single pass. A ClipRange is immutable once validated.
package timerange
