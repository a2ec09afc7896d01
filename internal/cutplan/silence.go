package cutplan

import "fmt"

// DetectSilence finds inter-segment gaps at or above config.MinPauseMs and
// returns one CutRegion per gap (spec §4.2). Segments must already be
// validated (sorted, non-overlapping); the caller (PlanCuts) is responsible
// for that.
func DetectSilence(t Transcript, cfg Config) []CutRegion {
	segs := t.Segments
	if len(segs) < 2 {
		return nil
	}

	var regions []CutRegion
	for i := 0; i < len(segs)-1; i++ {
		gapStart := segs[i].End
		gapEnd := segs[i+1].Start
		pauseMs := (gapEnd - gapStart) * 1000
		if pauseMs < float64(cfg.MinPauseMs) {
			continue
		}
		regions = append(regions, CutRegion{
			Start:  gapStart,
			End:    gapEnd,
			Reason: fmt.Sprintf("silence_%dms", int(pauseMs+0.5)),
		})
	}
	return regions
}
