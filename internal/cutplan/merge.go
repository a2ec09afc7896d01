package cutplan

import (
	"math"
	"sort"
)

// startTieEpsilon is the tolerance within which two candidates are
// considered to start "at the same time" for tie-break purposes (spec
// §4.4).
const startTieEpsilon = 0.01

// Merge sorts candidate cut regions (silence ∪ filler) and coalesces
// adjacent/overlapping ones within config.MergeThresholdMs, preserving
// provenance in a "+"-joined reason string (spec §4.4). Grounded on the
// sort-then-coalesce sweep used for silence-interval merging in the
// retrieval pack's editSilences.go, extended with the filler-first
// tie-break this spec requires.
func Merge(candidates []CutRegion, cfg Config) []CutRegion {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]CutRegion, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if math.Abs(a.Start-b.Start) <= startTieEpsilon {
			if a.IsFiller != b.IsFiller {
				return a.IsFiller
			}
			return a.Start < b.Start
		}
		return a.Start < b.Start
	})

	merged := make([]CutRegion, 0, len(sorted))
	current := sorted[0]
	threshold := float64(cfg.MergeThresholdMs)

	for _, next := range sorted[1:] {
		gapMs := (next.Start - current.End) * 1000
		if gapMs <= threshold {
			if next.End > current.End {
				current.End = next.End
			}
			current.Reason = current.Reason + "+" + next.Reason
			current.IsFiller = current.IsFiller || next.IsFiller
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)
	return merged
}
