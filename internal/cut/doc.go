// Package cut defines the two clip extraction strategies and their
// selection rule. FastCopy trades boundary accuracy for speed; Reencode is
// frame-accurate. The choice is a blanket per-run flag, never negotiated per
// clip, and an inapplicable FastCopy surfaces an error with a reencode hint
// instead of silently upgrading.
package cut
