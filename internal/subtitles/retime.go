package subtitles

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/bobarin/cutplanner/internal/cutplan"
)

const supportedSchemaVersion = "1.0.0"

// keepRegion is a parsed, float64-precision keep interval from a cut plan,
// alongside its offset on the post-edit (collapsed) timeline.
type keepRegion struct {
	start  float64
	end    float64
	offset float64
}

func (k keepRegion) duration() float64 {
	return k.end - k.start
}

// Retime maps transcript segments from the original timeline onto the
// post-edit timeline described by plan, producing frame-accurate subtitle
// cues (spec §4.8). The plan is treated as re-parsed external input: its
// string-formatted boundaries are converted back to float64 here, once,
// rather than threading strings through the arithmetic.
func Retime(transcript cutplan.Transcript, plan cutplan.CutPlan, finalDurationSec float64, cfg Config) ([]Cue, error) {
	if plan.SchemaVersion != supportedSchemaVersion {
		return nil, &Error{
			Kind:    ErrSchemaVersionUnsupported,
			Message: "unsupported cut plan schema version",
			Context: map[string]any{"schemaVersion": plan.SchemaVersion},
		}
	}

	keeps, err := extractKeepRegions(plan)
	if err != nil {
		return nil, err
	}

	if len(transcript.Segments) > 0 && keeps[len(keeps)-1].end <= transcript.Segments[0].Start {
		return nil, &Error{
			Kind:    ErrInvalidPlan,
			Message: "plan timeline ends before the transcript's first segment begins",
		}
	}

	fps := float64(cfg.TargetFps)
	var sumKeep float64
	for _, k := range keeps {
		sumKeep += k.duration()
	}
	if math.Abs(finalDurationSec-sumKeep) > 2/fps {
		return nil, &Error{
			Kind:    ErrTimingMismatch,
			Message: "rendered duration does not match sum of keep durations",
			Context: map[string]any{"expected": sumKeep, "actual": finalDurationSec},
		}
	}

	var cues []Cue
	for _, seg := range transcript.Segments {
		for _, k := range keeps {
			if !(seg.Start < k.end && seg.End > k.start) {
				continue
			}
			cs := math.Max(seg.Start, k.start)
			ce := math.Min(seg.End, k.end)
			rs := snapToFrame(cs-k.start+k.offset, fps)
			re := snapToFrame(ce-k.start+k.offset, fps)

			if re > finalDurationSec {
				re = finalDurationSec
			}
			if rs >= finalDurationSec {
				continue
			}
			if rs < 0 {
				rs = 0
			}
			if rs >= re {
				continue
			}

			cues = append(cues, Cue{Start: rs, End: re, Text: normalizeWhitespace(seg.Text)})
		}
	}

	sort.SliceStable(cues, func(i, j int) bool { return cues[i].Start < cues[j].Start })
	for i := range cues {
		cues[i].Index = i + 1
	}

	for i, c := range cues {
		if err := validateFrameAccuracy(c, fps, i+1); err != nil {
			return nil, err
		}
	}
	for i := 0; i < len(cues)-1; i++ {
		if cues[i].End > cues[i+1].Start {
			return nil, &Error{
				Kind:    ErrFrameAccuracy,
				Message: "adjacent cues overlap after frame snapping",
				Context: map[string]any{"cueIndex": cues[i+1].Index},
			}
		}
	}

	return cues, nil
}

func extractKeepRegions(plan cutplan.CutPlan) ([]keepRegion, error) {
	var keeps []keepRegion
	var offset float64
	for _, entry := range plan.Cuts {
		if entry.Type != "keep" {
			continue
		}
		start, err := strconv.ParseFloat(entry.Start, 64)
		if err != nil {
			return nil, &Error{Kind: ErrInvalidPlan, Message: "unparseable keep start", Cause: err}
		}
		end, err := strconv.ParseFloat(entry.End, 64)
		if err != nil {
			return nil, &Error{Kind: ErrInvalidPlan, Message: "unparseable keep end", Cause: err}
		}
		keeps = append(keeps, keepRegion{start: start, end: end, offset: offset})
		offset += end - start
	}
	if len(keeps) == 0 {
		return nil, &Error{Kind: ErrInvalidPlan, Message: "plan contains no keep regions"}
	}
	return keeps, nil
}

func snapToFrame(t, fps float64) float64 {
	return math.Round(t*fps) / fps
}

func validateFrameAccuracy(c Cue, fps float64, cueIndex int) error {
	tolerance := 1 / fps
	if math.Abs(c.Start-snapToFrame(c.Start, fps)) > tolerance {
		return &Error{Kind: ErrFrameAccuracy, Message: "cue start not frame-accurate", Context: map[string]any{"cueIndex": cueIndex}}
	}
	if math.Abs(c.End-snapToFrame(c.End, fps)) > tolerance {
		return &Error{Kind: ErrFrameAccuracy, Message: "cue end not frame-accurate", Context: map[string]any{"cueIndex": cueIndex}}
	}
	return nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
