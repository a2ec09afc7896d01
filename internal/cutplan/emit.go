package cutplan

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// PlanEntry is a single serialized cut-plan line (spec §4.7). Start/End
// are formatted to two decimal places only here, at the emission
// boundary — nowhere upstream.
type PlanEntry struct {
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Type       string  `json:"type"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// PlanMetadata records the processing time and the effective
// configuration that produced the plan.
type PlanMetadata struct {
	ProcessingTimeMs int64  `json:"processingTimeMs"`
	Parameters       Config `json:"parameters"`
}

// CutPlan is the full serialized output of a planning call (spec §4.7).
type CutPlan struct {
	SchemaVersion string       `json:"schemaVersion"`
	Source        string       `json:"source"`
	Output        string       `json:"output"`
	Cuts          []PlanEntry  `json:"cuts"`
	Metadata      PlanMetadata `json:"metadata"`
}

// PlanCuts runs the full Smart Cut Planner pipeline — detect, merge,
// filter, shape, emit — over a validated transcript (spec §2 data flow).
// It is the only entry point callers outside this package should use.
func PlanCuts(t Transcript, cfg Config) (*CutPlan, error) {
	started := time.Now()

	if err := t.Validate(); err != nil {
		return nil, err
	}

	var silenceRegions, fillerRegions []CutRegion
	g := new(errgroup.Group)
	g.Go(func() error {
		silenceRegions = DetectSilence(t, cfg)
		return nil
	})
	g.Go(func() error {
		fillerRegions = DetectFillers(t, cfg)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, &Error{Kind: ErrPlanningFailed, Message: "detection failed", Cause: err}
	}

	candidates := make([]CutRegion, 0, len(silenceRegions)+len(fillerRegions))
	candidates = append(candidates, silenceRegions...)
	candidates = append(candidates, fillerRegions...)

	merged := Merge(candidates, cfg)
	filtered := Filter(merged, cfg)

	shaped, err := shapeTimeline(t, filtered, cfg)
	if err != nil {
		return nil, err
	}

	return &CutPlan{
		SchemaVersion: "1.0.0",
		Source:        "transcripts/transcript.json",
		Output:        "plan/cut_plan.json",
		Cuts:          emitEntries(shaped),
		Metadata: PlanMetadata{
			ProcessingTimeMs: time.Since(started).Milliseconds(),
			Parameters:       cfg,
		},
	}, nil
}

func emitEntries(shaped []entry) []PlanEntry {
	out := make([]PlanEntry, 0, len(shaped))
	for _, e := range shaped {
		out = append(out, PlanEntry{
			Start:      fmt.Sprintf("%.2f", e.Start),
			End:        fmt.Sprintf("%.2f", e.End),
			Type:       e.Type,
			Reason:     e.Reason,
			Confidence: e.Confidence,
		})
	}
	return out
}
