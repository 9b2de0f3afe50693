// Package preflight verifies the host environment before a clip run:
// required binaries on PATH, directory access, and free space. Results are
// plain pass/fail records so the doctor command can render them uniformly.
package preflight
