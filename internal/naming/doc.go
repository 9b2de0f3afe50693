// Package naming computes output paths for cut jobs. Paths embed the clip
// boundaries and a per-run timestamp; duplicate ranges and pre-existing
// files on disk get numeric suffixes so no two jobs in a batch ever share a
// path.
package naming
