package cutplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_AdjacentFillerAndSilence(t *testing.T) {
	candidates := []CutRegion{
		{Start: 64.00, End: 66.00, Reason: "filler_word_well", IsFiller: true},
		{Start: 66.30, End: 68.70, Reason: "silence_2400ms"},
	}
	cfg := DefaultConfig()
	cfg.MergeThresholdMs = 500

	merged := Merge(candidates, cfg)

	assert.Len(t, merged, 1)
	assert.InDelta(t, 64.00, merged[0].Start, 1e-9)
	assert.InDelta(t, 68.70, merged[0].End, 1e-9)
	assert.Equal(t, "filler_word_well+silence_2400ms", merged[0].Reason)
	assert.True(t, merged[0].IsFiller)
}

func TestMerge_CoStartingCandidatesPreferFillerFirst(t *testing.T) {
	candidates := []CutRegion{
		{Start: 10.0, End: 12.0, Reason: "silence_2000ms"},
		{Start: 10.0, End: 11.0, Reason: "filler_word_um", IsFiller: true},
	}
	cfg := DefaultConfig()
	cfg.MergeThresholdMs = 0

	merged := Merge(candidates, cfg)

	assert.Len(t, merged, 1)
	assert.Equal(t, "filler_word_um+silence_2000ms", merged[0].Reason)
	assert.True(t, merged[0].IsFiller)
}

func TestMerge_NonOverlappingStaySeparate(t *testing.T) {
	candidates := []CutRegion{
		{Start: 1.0, End: 2.0, Reason: "silence_1500ms"},
		{Start: 10.0, End: 11.0, Reason: "silence_1500ms"},
	}
	cfg := DefaultConfig()

	merged := Merge(candidates, cfg)

	assert.Len(t, merged, 2)
}

func TestMerge_ProvenancePreservedInFillerBearingRegions(t *testing.T) {
	candidates := []CutRegion{
		{Start: 0, End: 1, Reason: "silence_1500ms"},
		{Start: 1, End: 2, Reason: "filler_word_uh", IsFiller: true},
		{Start: 2, End: 3, Reason: "silence_1600ms"},
	}
	cfg := DefaultConfig()
	cfg.MergeThresholdMs = 100

	merged := Merge(candidates, cfg)

	for _, r := range merged {
		if !r.IsFiller {
			continue
		}
		assert.Contains(t, r.Reason, "filler_word_")
	}
}
