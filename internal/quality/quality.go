package quality

import (
	"fmt"
	"sort"
	"strings"

	"clipper/internal/cut"
)

// DefaultTier is used when the caller names neither a tier nor a height.
const DefaultTier = "1080p"

// tierHeights is the fixed ordered set of named quality tiers.
var tierHeights = map[string]int{
	"360p":  360,
	"480p":  480,
	"720p":  720,
	"1080p": 1080,
	"1440p": 1440,
	"2160p": 2160,
}

// TierNames returns the named tiers in ascending height order.
func TierNames() []string {
	names := make([]string, 0, len(tierHeights))
	for name := range tierHeights {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return tierHeights[names[i]] < tierHeights[names[j]] })
	return names
}

// Request captures the caller's quality constraint: a named tier, an exact
// pixel height, or the default when both are zero.
type Request struct {
	Tier   string
	Height int
}

// ParseRequest validates the tier/height flags. Naming both is a conflict
// the CLI reports before any work starts.
func ParseRequest(tier string, height int) (Request, error) {
	tier = strings.ToLower(strings.TrimSpace(tier))
	if tier != "" && height > 0 {
		return Request{}, fmt.Errorf("--quality and --height are mutually exclusive")
	}
	if height < 0 {
		return Request{}, fmt.Errorf("height must be a positive integer")
	}
	if tier != "" {
		if _, ok := tierHeights[tier]; !ok {
			return Request{}, fmt.Errorf("unknown quality tier %q (choose from %s)", tier, strings.Join(TierNames(), ", "))
		}
	}
	return Request{Tier: tier, Height: height}, nil
}

// TargetHeight maps the request to the concrete pixel height to negotiate.
func (r Request) TargetHeight() int {
	if r.Height > 0 {
		return r.Height
	}
	tier := r.Tier
	if tier == "" {
		tier = DefaultTier
	}
	return tierHeights[tier]
}

// Resolved is a concrete source-quality selection understood by the acquirer.
type Resolved struct {
	Height int
}

// Availability holds the height sets reported by the source probe. FastCopy
// clips can only be cut from H.264 MP4 streams, so its candidate set is
// usually a subset of the full video set.
type Availability struct {
	FastCopy []int
	All      []int
}

// forStrategy returns the candidate set matching the run strategy.
func (a Availability) forStrategy(strategy cut.Strategy) []int {
	if strategy == cut.Reencode {
		return a.All
	}
	return a.FastCopy
}

// Resolve negotiates the request against the probed availability. The match
// rule is exact: an absent height is a mismatch listing what is available,
// never a silent substitution.
func Resolve(req Request, avail Availability, strategy cut.Strategy) (Resolved, error) {
	target := req.TargetHeight()
	if target <= 0 {
		return Resolved{}, fmt.Errorf("height must be a positive integer")
	}
	for _, h := range avail.forStrategy(strategy) {
		if h == target {
			return Resolved{Height: target}, nil
		}
	}
	mismatch := &MismatchError{
		Requested: target,
		Strategy:  strategy,
		Available: descending(avail.forStrategy(strategy)),
	}
	if strategy == cut.FastCopy {
		mismatch.Other = descending(avail.All)
	}
	return Resolved{}, mismatch
}

func descending(heights []int) []int {
	out := append([]int(nil), heights...)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
