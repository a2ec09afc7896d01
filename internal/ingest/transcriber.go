// Package ingest is a convenience collaborator that turns raw audio into a
// cutplan.Transcript via Whisper, for callers who don't already have a
// transcript. Neither CORE package (cutplan, subtitles) depends on it.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bobarin/cutplanner/internal/cutplan"
)

// Transcriber produces a cutplan.Transcript from raw audio bytes.
type Transcriber interface {
	Transcribe(ctx context.Context, audioData []byte, language string) (cutplan.Transcript, error)
}

// WhisperTranscriber transcribes audio with OpenAI Whisper and groups the
// resulting word timestamps into segments split on silence gaps, since
// Whisper's verbose_json gives words, not the segment boundaries the cut
// planner operates on.
type WhisperTranscriber struct {
	client *openai.Client
	// SegmentGapSec is the minimum gap between consecutive words that
	// starts a new transcript segment.
	SegmentGapSec float64
}

func NewWhisperTranscriber(apiKey string) *WhisperTranscriber {
	return &WhisperTranscriber{
		client:        openai.NewClient(apiKey),
		SegmentGapSec: 0.75,
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioData []byte, language string) (cutplan.Transcript, error) {
	if language == "" {
		language = "en"
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   bytes.NewReader(audioData),
		FilePath: "audio.mp3",
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: language,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
		},
	})
	if err != nil {
		return cutplan.Transcript{}, fmt.Errorf("whisper transcription failed: %w", err)
	}

	if len(resp.Words) == 0 {
		return cutplan.Transcript{}, fmt.Errorf("whisper returned no word timestamps (text: %q)", resp.Text)
	}

	words := make([]cutplan.Word, len(resp.Words))
	for i, w := range resp.Words {
		words[i] = cutplan.Word{
			Text:  strings.TrimSpace(w.Word),
			Start: w.Start,
			End:   w.End,
		}
	}

	return cutplan.Transcript{
		Language: language,
		Segments: groupIntoSegments(words, t.SegmentGapSec),
	}, nil
}

func groupIntoSegments(words []cutplan.Word, gapSec float64) []cutplan.TranscriptSegment {
	if gapSec <= 0 {
		gapSec = 0.75
	}

	var segments []cutplan.TranscriptSegment
	var current []cutplan.Word

	flush := func() {
		if len(current) == 0 {
			return
		}
		texts := make([]string, len(current))
		for i, w := range current {
			texts[i] = w.Text
		}
		segments = append(segments, cutplan.TranscriptSegment{
			Start: current[0].Start,
			End:   current[len(current)-1].End,
			Text:  strings.Join(texts, " "),
			Words: append([]cutplan.Word(nil), current...),
		})
		current = nil
	}

	for i, w := range words {
		if i > 0 && w.Start-words[i-1].End >= gapSec {
			flush()
		}
		current = append(current, w)
	}
	flush()

	return segments
}
