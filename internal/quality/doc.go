// Package quality negotiates the requested source quality against what a
// probe reports as actually available.
//
// A request is a named tier, an exact pixel height, or the default tier.
// Matching is strictly exact and strategy-aware: fast stream copies can only
// come from H.264 MP4 streams, so FastCopy runs match against that subset
// while Reencode runs may use any video height.
package quality
