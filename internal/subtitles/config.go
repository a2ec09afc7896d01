package subtitles

// Config seeds the subtitle re-timer (spec §4.1, SR-only options).
type Config struct {
	TargetFps       int `json:"targetFps"`
	SrtMaxLineChars int `json:"srtMaxLineChars"`
	SrtMaxLines     int `json:"srtMaxLines"`
}

// DefaultConfig returns the spec-mandated defaults for the fields SR owns.
func DefaultConfig() Config {
	return Config{
		TargetFps:       30,
		SrtMaxLineChars: 42,
		SrtMaxLines:     2,
	}
}
