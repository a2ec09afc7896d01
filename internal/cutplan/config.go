package cutplan

// Config is the immutable configuration value that seeds the cut planner.
// The subtitle re-timer's options live separately in subtitles.Config.
// Every field here must be echoed back into the emitted plan's
// metadata.parameters (spec §4.1, §9).
type Config struct {
	MinPauseMs            int      `json:"minPauseMs"`
	FillerWords           []string `json:"fillerWords"`
	FillerBufferSec       float64  `json:"fillerBufferSec"`
	MinFillerCutSec       float64  `json:"minFillerCutSec"`
	MinCutDurationSec     float64  `json:"minCutDurationSec"`
	MinSegmentDurationSec float64  `json:"minSegmentDurationSec"`
	MaxSegmentDurationSec float64  `json:"maxSegmentDurationSec"`
	MergeThresholdMs      int      `json:"mergeThresholdMs"`
	Deterministic         bool     `json:"deterministic"`
}

// DefaultFillerWords is the default lexical filler vocabulary (spec §4.1).
var DefaultFillerWords = []string{
	"um", "uh", "like", "so", "actually", "well", "basically",
	"literally", "kind-of", "sort-of", "you-know", "i-mean",
}

// DefaultConfig returns the scientifically-unremarkable but spec-mandated
// default configuration (spec §4.1 defaults column).
func DefaultConfig() Config {
	words := make([]string, len(DefaultFillerWords))
	copy(words, DefaultFillerWords)
	return Config{
		MinPauseMs:            1500,
		FillerWords:           words,
		FillerBufferSec:       1.0,
		MinFillerCutSec:       0.5,
		MinCutDurationSec:     0.5,
		MinSegmentDurationSec: 3.0,
		MaxSegmentDurationSec: 300.0,
		MergeThresholdMs:      500,
		Deterministic:         true,
	}
}

// fillerWordSet builds a lookup set from the configured filler vocabulary.
func (c Config) fillerWordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.FillerWords))
	for _, w := range c.FillerWords {
		set[w] = struct{}{}
	}
	return set
}
