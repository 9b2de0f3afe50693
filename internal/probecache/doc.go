// Package probecache persists yt-dlp probe results in SQLite keyed by
// source URL. Entries expire after a configurable TTL. Caching probe
// metadata is independent of any run's job state; it only spares repeated
// format enumeration against the same URL.
package probecache
