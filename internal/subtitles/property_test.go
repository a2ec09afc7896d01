package subtitles

import (
	"fmt"
	"testing"

	"github.com/bobarin/cutplanner/internal/cutplan"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// genPlanAndDuration builds an alternating keep/cut plan over a random
// number of segments, each with a random duration, starting and ending
// with a keep. It returns the plan and the true sum of keep durations
// (the consistent finalDurationSec per spec §8 P6).
func genPlanAndDuration(t *rapid.T) (cutplan.CutPlan, float64) {
	numKeeps := rapid.IntRange(1, 5).Draw(t, "numKeeps")
	cursor := 0.0
	var entries []cutplan.PlanEntry
	var totalKeep float64

	for i := 0; i < numKeeps; i++ {
		dur := rapid.Float64Range(0.5, 20).Draw(t, "keepDur")
		entries = append(entries, cutplan.PlanEntry{
			Start: fmt.Sprintf("%.2f", cursor), End: fmt.Sprintf("%.2f", cursor+dur),
			Type: "keep", Reason: "content", Confidence: 1.0,
		})
		totalKeep += dur
		cursor += dur

		if i < numKeeps-1 {
			cutDur := rapid.Float64Range(0.5, 10).Draw(t, "cutDur")
			entries = append(entries, cutplan.PlanEntry{
				Start: fmt.Sprintf("%.2f", cursor), End: fmt.Sprintf("%.2f", cursor+cutDur),
				Type: "cut", Reason: "silence_1500ms", Confidence: 1.0,
			})
			cursor += cutDur
		}
	}

	return cutplan.CutPlan{SchemaVersion: "1.0.0", Cuts: entries}, totalKeep
}

func TestProperty_CuesAreMonotonicNonOverlappingAndBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		plan, finalDur := genPlanAndDuration(rt)
		numSegs := rapid.IntRange(0, 6).Draw(rt, "numSegs")
		endT := 0.0
		for _, e := range plan.Cuts {
			var end float64
			fmt.Sscanf(e.End, "%f", &end)
			if end > endT {
				endT = end
			}
		}

		var segs []cutplan.TranscriptSegment
		cursor := 0.0
		for i := 0; i < numSegs; i++ {
			if cursor >= endT {
				break
			}
			dur := rapid.Float64Range(0.1, 3).Draw(rt, "segDur")
			end := cursor + dur
			if end > endT {
				end = endT
			}
			if end <= cursor {
				break
			}
			segs = append(segs, cutplan.TranscriptSegment{Start: cursor, End: end, Text: "word word word"})
			cursor = end + rapid.Float64Range(0, 0.5).Draw(rt, "step")
		}
		if len(segs) == 0 {
			return
		}

		cfg := DefaultConfig()
		cues, err := Retime(cutplan.Transcript{Segments: segs}, plan, finalDur, cfg)
		if err != nil {
			return
		}

		fps := float64(cfg.TargetFps)
		for i, c := range cues {
			assert.GreaterOrEqual(rt, c.Start, 0.0)
			assert.LessOrEqual(rt, c.End, finalDur+1.0/fps)
			assert.Less(rt, c.Start, c.End)
			if i > 0 {
				assert.LessOrEqual(rt, cues[i-1].End, c.Start)
			}
		}
	})
}

func TestProperty_SegmentWhollyInsideCutYieldsZeroCues(t *testing.T) {
	transcript := cutplan.Transcript{Segments: []cutplan.TranscriptSegment{
		{Start: 5.5, End: 6.5, Text: "buried in the cut"},
	}}
	plan := cutplan.CutPlan{SchemaVersion: "1.0.0", Cuts: []cutplan.PlanEntry{
		{Start: "0.00", End: "5.00", Type: "keep", Reason: "content", Confidence: 1.0},
		{Start: "5.00", End: "7.00", Type: "cut", Reason: "silence_2000ms", Confidence: 1.0},
		{Start: "7.00", End: "10.00", Type: "keep", Reason: "content", Confidence: 1.0},
	}}

	cues, err := Retime(transcript, plan, 8.0, DefaultConfig())
	if !assert.NoError(t, err) {
		return
	}
	assert.Empty(t, cues)
}

func TestProperty_SegmentStraddlingKKeepsProducesKCues(t *testing.T) {
	transcript := cutplan.Transcript{Segments: []cutplan.TranscriptSegment{
		{Start: 1.0, End: 9.0, Text: "spanning three separate keep regions here"},
	}}
	plan := cutplan.CutPlan{SchemaVersion: "1.0.0", Cuts: []cutplan.PlanEntry{
		{Start: "0.00", End: "2.00", Type: "keep", Reason: "content", Confidence: 1.0},
		{Start: "2.00", End: "3.00", Type: "cut", Reason: "silence_1000ms", Confidence: 1.0},
		{Start: "3.00", End: "6.00", Type: "keep", Reason: "content", Confidence: 1.0},
		{Start: "6.00", End: "7.00", Type: "cut", Reason: "silence_1000ms", Confidence: 1.0},
		{Start: "7.00", End: "10.00", Type: "keep", Reason: "content", Confidence: 1.0},
	}}

	cues, err := Retime(transcript, plan, 8.0, DefaultConfig())
	if !assert.NoError(t, err) {
		return
	}
	assert.Len(t, cues, 3)
}
