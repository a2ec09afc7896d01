package cutplan

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// DetectFillers finds filler-word occurrences per segment (spec §4.3),
// using word-level timing when the segment carries it and falling back to
// a position-estimated strategy otherwise. This is the tagged-variant
// polymorphism the spec calls for, keyed on whether the segment has any
// words (a nil or empty Words slice uses the positional strategy).
func DetectFillers(t Transcript, cfg Config) []CutRegion {
	fillerSet := cfg.fillerWordSet()

	var regions []CutRegion
	for _, seg := range t.Segments {
		if len(seg.Words) > 0 {
			regions = append(regions, detectFillersWordLevel(seg, fillerSet, cfg)...)
		} else {
			regions = append(regions, detectFillersPositional(seg, fillerSet, cfg)...)
		}
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Start < regions[j].Start
	})
	return regions
}

func detectFillersWordLevel(seg TranscriptSegment, fillerSet map[string]struct{}, cfg Config) []CutRegion {
	words := seg.Words
	var regions []CutRegion

	for k, w := range words {
		norm := normalizeToken(w.Text)
		if _, ok := fillerSet[norm]; !ok {
			continue
		}
		if norm == "so" && !soContextAllowedWords(words, k) {
			continue
		}
		if math.IsNaN(w.Start) || math.IsInf(w.Start, 0) || math.IsNaN(w.End) || math.IsInf(w.End, 0) {
			continue
		}

		start := w.Start - cfg.FillerBufferSec
		if start < 0 {
			start = 0
		}
		end := w.End + cfg.FillerBufferSec

		start, end = expandToMinFillerCut(start, end, cfg.MinFillerCutSec)
		regions = append(regions, CutRegion{
			Start:    start,
			End:      end,
			Reason:   "filler_word_" + norm,
			IsFiller: true,
		})
	}
	return regions
}

func detectFillersPositional(seg TranscriptSegment, fillerSet map[string]struct{}, cfg Config) []CutRegion {
	tokens := strings.Fields(seg.Text)
	n := len(tokens)
	if n == 0 {
		return nil
	}

	var regions []CutRegion
	for idx, tok := range tokens {
		norm := normalizeToken(tok)
		if _, ok := fillerSet[norm]; !ok {
			continue
		}
		if norm == "so" && !soContextAllowedTokens(tokens, idx) {
			continue
		}

		r := float64(idx) / float64(n)
		rNext := float64(idx+1) / float64(n)
		span := seg.End - seg.Start

		start := seg.Start + r*span - 0.3 - cfg.FillerBufferSec
		end := seg.Start + rNext*span + 0.3 + cfg.FillerBufferSec
		if start < 0 {
			start = 0
		}

		start, end = expandToMinFillerCut(start, end, cfg.MinFillerCutSec)
		regions = append(regions, CutRegion{
			Start:    start,
			End:      end,
			Reason:   "filler_word_" + norm,
			IsFiller: true,
		})
	}
	return regions
}

// expandToMinFillerCut symmetrically widens [start, end] until it spans at
// least minSec, never going below 0.
func expandToMinFillerCut(start, end, minSec float64) (float64, float64) {
	if end-start >= minSec {
		return start, end
	}
	deficit := minSec - (end - start)
	half := deficit / 2
	start -= half
	end += half
	if start < 0 {
		end += -start
		start = 0
	}
	return start, end
}

// soContextAllowedWords implements the §4.3 context rule for "so" against
// word-level timing: index 0/1, a >300ms gap to the next word, or a
// sentence-terminated previous word.
func soContextAllowedWords(words []Word, k int) bool {
	if k == 0 || k == 1 {
		return true
	}
	if k+1 < len(words) {
		gap := words[k+1].Start - words[k].End
		if gap*1000 > 300 {
			return true
		}
	}
	if k > 0 && endsSentence(words[k-1].Text) {
		return true
	}
	return false
}

// soContextAllowedTokens is the same rule applied without word-level
// timing: the inter-word gap sub-rule cannot be evaluated and is skipped.
func soContextAllowedTokens(tokens []string, idx int) bool {
	if idx == 0 || idx == 1 {
		return true
	}
	if idx > 0 && endsSentence(tokens[idx-1]) {
		return true
	}
	return false
}

func endsSentence(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	last := s[len(s)-1]
	return last == '.' || last == '!' || last == '?'
}

// normalizeToken lowercases a token and strips everything but letters,
// digits, apostrophes, and hyphens (Unicode-aware, per spec §4.3).
func normalizeToken(s string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-' {
			return r
		}
		return -1
	}, s)
}
