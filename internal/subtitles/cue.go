package subtitles

// Cue is a single subtitle on the post-edit timeline (spec §3
// SubtitleCue).
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}
