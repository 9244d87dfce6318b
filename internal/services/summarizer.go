package services

import (
	"context"
	"math"

	"ytdigest/internal/extractive"
	"ytdigest/internal/models"
	"ytdigest/internal/transcript"
)

// Summarizer names.
const (
	SummarizerExtractive = "extractive"
	SummarizerLLM        = "llm"
)

// SummaryInput is what a Summarizer gets for one request.
type SummaryInput struct {
	VideoID    string
	Mode       string
	Transcript *transcript.Normalized
}

// SummaryOutput carries the summary together with the part of the
// transcript it was built from.
type SummaryOutput struct {
	Summary    models.Summary
	UsedText   string
	UsedWords  int
	WasTrimmed bool
}

// Summarizer turns a normalized transcript into a summary.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, in SummaryInput) (*SummaryOutput, error)
}

// ExtractiveSummarizer ranks transcript sentences locally. It ignores the
// mode and never fails.
type ExtractiveSummarizer struct {
	core     *extractive.Summarizer
	maxWords int
}

// NewExtractiveSummarizer creates the local summarizer. maxWords <= 0 uses
// transcript.DefaultMaxWords.
func NewExtractiveSummarizer(core *extractive.Summarizer, maxWords int) *ExtractiveSummarizer {
	if core == nil {
		core = extractive.New(extractive.DefaultParams(), nil)
	}
	if maxWords <= 0 {
		maxWords = transcript.DefaultMaxWords
	}
	return &ExtractiveSummarizer{core: core, maxWords: maxWords}
}

func (s *ExtractiveSummarizer) Name() string { return SummarizerExtractive }

func (s *ExtractiveSummarizer) Summarize(ctx context.Context, in SummaryInput) (*SummaryOutput, error) {
	clipped := transcript.ClipToWords(in.Transcript.FullText, s.maxWords)
	res := s.core.Summarize(clipped.Text)

	return &SummaryOutput{
		Summary: models.Summary{
			ShortSummary: res.ShortSummary,
			KeyPoints:    res.KeyPoints,
			Topics:       res.Topics,
			Stats: models.SummaryStats{
				Sentences:   res.SentenceCount,
				Words:       clipped.WordCount,
				ReadSeconds: readSeconds(clipped.WordCount),
			},
		},
		UsedText:   clipped.Text,
		UsedWords:  clipped.WordCount,
		WasTrimmed: in.Transcript.TotalWords > s.maxWords,
	}, nil
}

// readSeconds assumes about 180 words per minute.
func readSeconds(words int) int {
	return int(math.Ceil(float64(words) / 3))
}

var (
	_ Summarizer = (*ExtractiveSummarizer)(nil)
	_ Summarizer = (*LLMSummarizer)(nil)
)
