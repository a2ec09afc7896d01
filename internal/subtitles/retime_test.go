package subtitles

import (
	"testing"

	"github.com/bobarin/cutplanner/internal/cutplan"
	"github.com/stretchr/testify/assert"
)

func samplePlan(cuts ...cutplan.PlanEntry) cutplan.CutPlan {
	return cutplan.CutPlan{SchemaVersion: "1.0.0", Cuts: cuts}
}

func TestRetime_SegmentStraddlingTwoKeepRegions(t *testing.T) {
	transcript := cutplan.Transcript{Segments: []cutplan.TranscriptSegment{
		{Start: 3.00, End: 7.66, Text: "We were going to ship"},
	}}
	plan := samplePlan(
		cutplan.PlanEntry{Start: "0.00", End: "3.45", Type: "keep", Reason: "content", Confidence: 1.0},
		cutplan.PlanEntry{Start: "3.45", End: "4.23", Type: "cut", Reason: "silence_780ms", Confidence: 1.0},
		cutplan.PlanEntry{Start: "4.23", End: "12.38", Type: "keep", Reason: "content", Confidence: 1.0},
	)
	cfg := DefaultConfig()

	cues, err := Retime(transcript, plan, 11.6, cfg)
	if !assert.NoError(t, err) {
		return
	}

	if !assert.Len(t, cues, 2) {
		return
	}
	assert.InDelta(t, 3.00, cues[0].Start, 1.0/30)
	assert.InDelta(t, 3.45, cues[0].End, 1.0/30)
	assert.InDelta(t, 3.45, cues[1].Start, 1.0/30)
	assert.InDelta(t, 6.88, cues[1].End, 1.0/30)
}

func TestRetime_SegmentWhollyInsideCutYieldsZeroCues(t *testing.T) {
	transcript := cutplan.Transcript{Segments: []cutplan.TranscriptSegment{
		{Start: 5.0, End: 6.0, Text: "discarded"},
	}}
	plan := samplePlan(
		cutplan.PlanEntry{Start: "0.00", End: "4.0", Type: "keep", Reason: "content", Confidence: 1.0},
		cutplan.PlanEntry{Start: "4.0", End: "7.0", Type: "cut", Reason: "silence_3000ms", Confidence: 1.0},
		cutplan.PlanEntry{Start: "7.0", End: "10.0", Type: "keep", Reason: "content", Confidence: 1.0},
	)
	cfg := DefaultConfig()

	cues, err := Retime(transcript, plan, 7.0, cfg)
	if !assert.NoError(t, err) {
		return
	}
	assert.Empty(t, cues)
}

func TestRetime_RejectsUnsupportedSchemaVersion(t *testing.T) {
	plan := cutplan.CutPlan{SchemaVersion: "2.0.0"}
	_, err := Retime(cutplan.Transcript{}, plan, 0, DefaultConfig())
	assert.Error(t, err)
	var srErr *Error
	assert.ErrorAs(t, err, &srErr)
	assert.Equal(t, ErrSchemaVersionUnsupported, srErr.Kind)
}

func TestRetime_RejectsPlanWithNoKeepRegions(t *testing.T) {
	plan := samplePlan(cutplan.PlanEntry{Start: "0.00", End: "5.00", Type: "cut", Reason: "silence_5000ms", Confidence: 1.0})
	_, err := Retime(cutplan.Transcript{}, plan, 0, DefaultConfig())
	assert.Error(t, err)
	var srErr *Error
	assert.ErrorAs(t, err, &srErr)
	assert.Equal(t, ErrInvalidPlan, srErr.Kind)
}

func TestRetime_RejectsTimingMismatch(t *testing.T) {
	plan := samplePlan(cutplan.PlanEntry{Start: "0.00", End: "5.00", Type: "keep", Reason: "content", Confidence: 1.0})
	_, err := Retime(cutplan.Transcript{Segments: []cutplan.TranscriptSegment{{Start: 0, End: 1, Text: "a"}}}, plan, 50.0, DefaultConfig())
	assert.Error(t, err)
	var srErr *Error
	assert.ErrorAs(t, err, &srErr)
	assert.Equal(t, ErrTimingMismatch, srErr.Kind)
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "00:00:03,450", formatTimestamp(3.45, ","))
	assert.Equal(t, "01:02:03.004", formatTimestamp(3723.004, "."))
}

func TestWriteSRT_BasicShape(t *testing.T) {
	cues := []Cue{{Index: 1, Start: 0, End: 1.5, Text: "hello world"}}
	out := WriteSRT(cues, DefaultConfig())
	assert.Contains(t, out, "1\n00:00:00,000 --> 00:00:01,500\nhello world\n\n")
}

func TestWriteVTT_HasHeaderAndDotSeparator(t *testing.T) {
	cues := []Cue{{Index: 1, Start: 0, End: 1.5, Text: "hello world"}}
	out := WriteVTT(cues, DefaultConfig())
	assert.Contains(t, out, "WEBVTT\n\n")
	assert.Contains(t, out, "00:00:00.000 --> 00:00:01.500")
	assert.NotContains(t, out, "1\n00:00:00.000")
}

func TestWrapText_TruncatesOverflowLines(t *testing.T) {
	lines := wrapText("one two three four five six seven eight nine ten", 10, 2)
	assert.LessOrEqual(t, len(lines), 2)
}
