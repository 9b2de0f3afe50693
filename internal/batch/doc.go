// Package batch coordinates a clip run: a single source acquisition shared
// by every cut job, a bounded worker pool, and a result set that always
// comes back in request order. Job failures are isolated; only run-level
// problems abort the batch.
package batch
