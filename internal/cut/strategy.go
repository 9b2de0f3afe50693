package cut

// Strategy is the run-level choice between the two cutting modes. It is
// resolved once per run and threaded into every job; batches never mix
// strategies.
type Strategy int

const (
	// FastCopy requests a stream-level copy bounded by the range. No
	// re-encoding happens, so boundaries snap to the nearest keyframe at or
	// before the start and the clip may overrun the end by up to one
	// keyframe interval.
	FastCopy Strategy = iota
	// Reencode requests frame-accurate extraction. The bounded segment is
	// always re-encoded so boundaries match the request exactly, at the cost
	// of speed.
	Reencode
)

// Select maps the CLI flag to a strategy. FastCopy is the default.
func Select(reencode bool) Strategy {
	if reencode {
		return Reencode
	}
	return FastCopy
}

func (s Strategy) String() string {
	if s == Reencode {
		return "reencode"
	}
	return "fastcopy"
}
