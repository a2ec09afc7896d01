package cutplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanCuts_SilenceOnlyFourSegments(t *testing.T) {
	transcript := Transcript{Segments: []TranscriptSegment{
		{Start: 0, End: 5.5, Text: "a"},
		{Start: 7.0, End: 12.0, Text: "b"},
		{Start: 14.0, End: 18.5, Text: "c"},
		{Start: 20.0, End: 25.0, Text: "d"},
	}}

	plan, err := PlanCuts(transcript, DefaultConfig())
	if !assert.NoError(t, err) {
		return
	}

	want := []PlanEntry{
		{Start: "0.00", End: "5.50", Type: "keep", Reason: "content", Confidence: 1.0},
		{Start: "5.50", End: "7.00", Type: "cut", Reason: "silence_1500ms", Confidence: 1.0},
		{Start: "7.00", End: "12.00", Type: "keep", Reason: "content", Confidence: 1.0},
		{Start: "12.00", End: "14.00", Type: "cut", Reason: "silence_2000ms", Confidence: 1.0},
		{Start: "14.00", End: "18.50", Type: "keep", Reason: "content", Confidence: 1.0},
		{Start: "18.50", End: "20.00", Type: "cut", Reason: "silence_1500ms", Confidence: 1.0},
		{Start: "20.00", End: "25.00", Type: "keep", Reason: "content", Confidence: 1.0},
	}
	assert.Equal(t, want, plan.Cuts)
	assert.Equal(t, "1.0.0", plan.SchemaVersion)
}

func TestPlanCuts_ZeroCutsYieldsSingleKeep(t *testing.T) {
	transcript := Transcript{Segments: []TranscriptSegment{{Start: 0, End: 30, Text: "a"}}}

	plan, err := PlanCuts(transcript, DefaultConfig())
	if !assert.NoError(t, err) {
		return
	}

	assert.Equal(t, []PlanEntry{{Start: "0.00", End: "30.00", Type: "keep", Reason: "content", Confidence: 1.0}}, plan.Cuts)
}

func TestPlanCuts_RejectsEmptyTranscript(t *testing.T) {
	_, err := PlanCuts(Transcript{}, DefaultConfig())
	assert.Error(t, err)
	var cpErr *Error
	assert.ErrorAs(t, err, &cpErr)
	assert.Equal(t, ErrInvalidTranscript, cpErr.Kind)
}

func TestShapeSegments_SplitsAtNaturalGaps(t *testing.T) {
	transcript := Transcript{Segments: []TranscriptSegment{
		{Start: 0, End: 200.0, Text: "a"},
		{Start: 200.6, End: 420.0, Text: "b"},
		{Start: 420.6, End: 600.0, Text: "c"},
	}}
	cfg := DefaultConfig()
	cfg.MaxSegmentDurationSec = 300

	shaped, err := shapeTimeline(transcript, nil, cfg)
	if !assert.NoError(t, err) {
		return
	}

	assert.Len(t, shaped, 3)
	assert.InDelta(t, 0, shaped[0].Start, 1e-9)
	assert.InDelta(t, 200.0, shaped[0].End, 1e-9)
	assert.InDelta(t, 200.0, shaped[1].Start, 1e-9)
	assert.InDelta(t, 420.0, shaped[1].End, 1e-9)
	assert.InDelta(t, 420.0, shaped[2].Start, 1e-9)
	assert.InDelta(t, 600.0, shaped[2].End, 1e-9)
}

func TestShapeSegments_DemotesUnmergeableShortKeep(t *testing.T) {
	transcript := Transcript{Segments: []TranscriptSegment{{Start: 0, End: 20, Text: "a"}}}
	cfg := DefaultConfig()
	cfg.MinSegmentDurationSec = 3.0

	input := []entry{
		{Start: 0, End: 10, Type: "cut", Reason: "silence_x", Confidence: 1.0},
		{Start: 10, End: 11.5, Type: "keep", Reason: "content", Confidence: 1.0},
		{Start: 11.5, End: 20, Type: "cut", Reason: "silence_y", Confidence: 1.0},
	}

	shaped, err := shapeSegments(transcript, input, cfg)
	if !assert.NoError(t, err) {
		return
	}

	assert.Len(t, shaped, 3)
	assert.Equal(t, "cut", shaped[1].Type)
	assert.Equal(t, "too_short_1.50s", shaped[1].Reason)
}

func TestShapeSegments_MergesShortKeepIntoPreviousKeep(t *testing.T) {
	transcript := Transcript{Segments: []TranscriptSegment{{Start: 0, End: 20, Text: "a"}}}
	cfg := DefaultConfig()
	cfg.MinSegmentDurationSec = 3.0

	input := []entry{
		{Start: 0, End: 8, Type: "keep", Reason: "content", Confidence: 1.0},
		{Start: 8, End: 9, Type: "keep", Reason: "content", Confidence: 1.0},
	}

	shaped, err := shapeSegments(transcript, input, cfg)
	if !assert.NoError(t, err) {
		return
	}

	assert.Len(t, shaped, 1)
	assert.InDelta(t, 9.0, shaped[0].End, 1e-9)
}

func TestShapeSegments_ExactlyMaxDurationIsNotSplit(t *testing.T) {
	transcript := Transcript{Segments: []TranscriptSegment{{Start: 0, End: 300, Text: "a"}}}
	cfg := DefaultConfig()
	cfg.MaxSegmentDurationSec = 300

	input := []entry{{Start: 0, End: 300, Type: "keep", Reason: "content", Confidence: 1.0}}

	shaped, err := shapeSegments(transcript, input, cfg)
	if !assert.NoError(t, err) {
		return
	}

	assert.Len(t, shaped, 1)
}
