package cutplan

// Filter drops merged cut regions shorter than config.MinCutDurationSec,
// preserving order (spec §4.5).
func Filter(regions []CutRegion, cfg Config) []CutRegion {
	out := make([]CutRegion, 0, len(regions))
	for _, r := range regions {
		if r.duration() < cfg.MinCutDurationSec {
			continue
		}
		out = append(out, r)
	}
	return out
}
