package cutplan

import (
	"fmt"
	"math"
)

// entry is the internal, float64-precision representation of a timeline
// entry. Strings are only produced at emission time (spec §9: never round
// intermediate values).
type entry struct {
	Start      float64
	End        float64
	Type       string
	Reason     string
	Confidence float64
}

const naturalSplitGapMs = 500.0

// shapeTimeline runs Planner step A (interleave) and step B (segment
// duration shaping) over the filtered cut regions, returning the final
// ordered timeline (spec §4.6).
func shapeTimeline(t Transcript, cuts []CutRegion, cfg Config) ([]entry, error) {
	if len(t.Segments) == 0 {
		return nil, &Error{Kind: ErrPlanningFailed, Message: "planner called with empty transcript"}
	}

	interleaved := interleave(t, cuts)
	shaped, err := shapeSegments(t, interleaved, cfg)
	if err != nil {
		return nil, err
	}
	return shaped, nil
}

func interleave(t Transcript, cuts []CutRegion) []entry {
	endT := t.EndTime()
	entries := make([]entry, 0, 2*len(cuts)+1)
	cursor := 0.0

	for _, c := range cuts {
		if c.Start > cursor {
			entries = append(entries, entry{Start: cursor, End: c.Start, Type: "keep", Reason: "content", Confidence: 1.0})
		}
		entries = append(entries, entry{Start: c.Start, End: c.End, Type: "cut", Reason: c.Reason, Confidence: 1.0})
		cursor = c.End
	}
	if cursor < endT {
		entries = append(entries, entry{Start: cursor, End: endT, Type: "keep", Reason: "content", Confidence: 1.0})
	}
	return entries
}

func shapeSegments(t Transcript, input []entry, cfg Config) ([]entry, error) {
	output := make([]entry, 0, len(input))

	for i := 0; i < len(input); i++ {
		e := input[i]
		if e.Type == "cut" {
			output = append(output, e)
			continue
		}

		d := e.End - e.Start
		switch {
		case d < cfg.MinSegmentDurationSec:
			consumedNext, err := absorbShortKeep(t, input, &output, i, e, cfg)
			if err != nil {
				return nil, err
			}
			if consumedNext {
				i++
			}
		case d > cfg.MaxSegmentDurationSec:
			output = append(output, splitLongKeep(t, e, cfg)...)
		default:
			output = append(output, e)
		}
	}
	return output, nil
}

// absorbShortKeep implements the three-way rule for a too-short keep entry
// (spec §4.6 step B, first bullet). It appends to *output directly and
// reports whether the following input entry was consumed.
func absorbShortKeep(t Transcript, input []entry, output *[]entry, i int, e entry, cfg Config) (bool, error) {
	if n := len(*output); n > 0 && (*output)[n-1].Type == "keep" {
		prev := &(*output)[n-1]
		prev.End = e.End
		if prev.Reason != "content" {
			prev.Reason = prev.Reason + "+merged"
		}
		return false, nil
	}

	if i+1 < len(input) && input[i+1].Type == "keep" {
		next := input[i+1]
		next.Start = e.Start
		*output = append(*output, next)
		return true, nil
	}

	*output = append(*output, entry{
		Start:      e.Start,
		End:        e.End,
		Type:       "cut",
		Reason:     fmt.Sprintf("too_short_%.2fs", e.End-e.Start),
		Confidence: 1.0,
	})
	return false, nil
}

// splitLongKeep implements the over-long keep split rule (spec §4.6 step
// B, second bullet).
func splitLongKeep(t Transcript, e entry, cfg Config) []entry {
	boundaries := naturalSplitPoints(t.Segments, e.Start, e.End)
	if len(boundaries) == 0 {
		d := e.End - e.Start
		n := int(math.Ceil(d / cfg.MaxSegmentDurationSec))
		if n < 1 {
			n = 1
		}
		for k := 1; k < n; k++ {
			boundaries = append(boundaries, e.Start+float64(k)*d/float64(n))
		}
	}

	out := make([]entry, 0, len(boundaries)+1)
	prev := e.Start
	for _, b := range boundaries {
		out = append(out, entry{Start: prev, End: b, Type: "keep", Reason: e.Reason, Confidence: e.Confidence})
		prev = b
	}
	out = append(out, entry{Start: prev, End: e.End, Type: "keep", Reason: e.Reason, Confidence: e.Confidence})
	return out
}

// naturalSplitPoints finds inter-segment transcript gaps of at least
// 500ms whose boundary lies strictly inside (start, end) (spec §4.6,
// glossary "Natural split point").
func naturalSplitPoints(segs []TranscriptSegment, start, end float64) []float64 {
	var points []float64
	for i := 0; i < len(segs)-1; i++ {
		gapStart := segs[i].End
		gapEnd := segs[i+1].Start
		if (gapEnd-gapStart)*1000 < naturalSplitGapMs {
			continue
		}
		if gapStart > start && gapStart < end {
			points = append(points, gapStart)
		}
	}
	return points
}
