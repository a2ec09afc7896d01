package subtitles

import (
	"fmt"
	"math"
	"strings"
)

// WriteSRT renders cues as strict SubRip text: 1-based index, an
// arrow-separated `HH:MM:SS,mmm` timestamp pair, greedily word-wrapped
// text, then a blank line (spec §4.8 Outputs).
func WriteSRT(cues []Cue, cfg Config) string {
	var sb strings.Builder
	for _, c := range cues {
		fmt.Fprintf(&sb, "%d\n", c.Index)
		fmt.Fprintf(&sb, "%s --> %s\n", formatTimestamp(c.Start, ","), formatTimestamp(c.End, ","))
		for _, line := range wrapText(c.Text, cfg.SrtMaxLineChars, cfg.SrtMaxLines) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteVTT renders the same cues as WebVTT: a `WEBVTT` header, `.`
// timestamp separators, and no index lines.
func WriteVTT(cues []Cue, cfg Config) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for _, c := range cues {
		fmt.Fprintf(&sb, "%s --> %s\n", formatTimestamp(c.Start, "."), formatTimestamp(c.End, "."))
		for _, line := range wrapText(c.Text, cfg.SrtMaxLineChars, cfg.SrtMaxLines) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatTimestamp decomposes t seconds into zero-padded HH:MM:SS + a
// 3-digit millisecond suffix joined by sep (spec §4.8 timestamp format
// details).
func formatTimestamp(t float64, sep string) string {
	if t < 0 {
		t = 0
	}
	hours := int(math.Floor(t / 3600))
	mins := int(math.Floor(math.Mod(t, 3600) / 60))
	secs := int(math.Floor(math.Mod(t, 60)))
	millis := int(math.Floor((t - math.Floor(t)) * 1000))
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", hours, mins, secs, sep, millis)
}

// wrapText greedily packs words onto lines no longer than maxChars,
// truncating once maxLines lines have been produced.
func wrapText(text string, maxChars, maxLines int) []string {
	if maxLines <= 0 {
		maxLines = 1
	}
	if maxChars <= 0 {
		maxChars = len(text) + 1
	}

	words := strings.Fields(text)
	var lines []string
	cur := ""
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if len(candidate) <= maxChars {
			cur = candidate
			continue
		}
		if cur == "" {
			// w alone exceeds maxChars — give it its own (still
			// overflowing) line instead of flushing an empty one first.
			lines = append(lines, w)
			if len(lines) == maxLines {
				return lines
			}
			continue
		}
		lines = append(lines, cur)
		cur = w
		if len(lines) == maxLines {
			return lines
		}
	}
	if cur != "" && len(lines) < maxLines {
		lines = append(lines, cur)
	}
	return lines
}
