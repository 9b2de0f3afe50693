// Package source turns a remote video reference into a single shared local
// media handle for a batch run.
//
// The Acquirer probes available qualities (optionally through the probe
// cache) and downloads the source once at the negotiated quality. The
// resulting Handle is read-only for the whole batch and released only after
// every clip attempt completes.
package source
