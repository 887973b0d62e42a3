// Package selection implements the candidate policy: which files may enter
// the compilation, how many, and where each segment starts.
package selection

import (
	"math/rand"
	"path/filepath"
	"strings"
)

const (
	// SegmentSeconds is the fixed length every source contributes.
	SegmentSeconds = 60
	// LeadInSeconds is the minimum amount skipped at the head of a source.
	LeadInSeconds = 10
	// TrailSeconds is the minimum margin left after the segment.
	TrailSeconds = 10
	// MinSourceSeconds is the shortest usable source: lead-in + segment +
	// trailing margin.
	MinSourceSeconds = LeadInSeconds + SegmentSeconds + TrailSeconds
	// MaxCandidates caps a run at sixty clips, the one-hour target.
	MaxCandidates = 60
)

// housekeepingExts are sidecar files that show up next to videos and must
// never be treated as sources.
var housekeepingExts = map[string]bool{
	".log":  true,
	".py":   true,
	".txt":  true,
	".json": true,
}

// Housekeeping reports whether name is a non-media sidecar file.
func Housekeeping(name string) bool {
	return housekeepingExts[strings.ToLower(filepath.Ext(name))]
}

// Eligible reports whether a probed duration can host a segment with the
// required margins.
func Eligible(durationSeconds float64) bool {
	return durationSeconds >= MinSourceSeconds
}

// Sample returns up to max of the given paths, uniformly without
// replacement. Pools at or under the cap come back unchanged, in order.
func Sample(paths []string, max int, rng *rand.Rand) []string {
	if len(paths) <= max {
		out := make([]string, len(paths))
		copy(out, paths)
		return out
	}
	out := make([]string, 0, max)
	for _, i := range rng.Perm(len(paths))[:max] {
		out = append(out, paths[i])
	}
	return out
}

// StartSeconds draws a segment start for a source of duration d: an integer
// uniform on [LeadInSeconds, int(d)-SegmentSeconds-TrailSeconds], inclusive
// on both ends. Callers must filter with Eligible first.
func StartSeconds(d float64, rng *rand.Rand) int {
	lo := LeadInSeconds
	hi := int(d) - SegmentSeconds - TrailSeconds
	return lo + rng.Intn(hi-lo+1)
}
