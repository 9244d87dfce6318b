package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Assembler turns a video ID into a normalized transcript by walking a
// language priority list against a Source, one request at a time.
type Assembler struct {
	source    Source
	languages []string
}

// NewAssembler creates an assembler. A nil or empty languages list falls
// back to DefaultLanguages.
func NewAssembler(source Source, languages []string) *Assembler {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	return &Assembler{source: source, languages: languages}
}

// Languages returns the priority order the assembler walks.
func (a *Assembler) Languages() []string {
	return a.languages
}

// Assemble fetches, cleans and joins the transcript for videoID.
func (a *Assembler) Assemble(ctx context.Context, videoID string) (*Normalized, error) {
	segments, lang, err := a.fetch(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: source returned no segments", ErrNoTranscript)
	}

	fullText := JoinSegments(segments)
	if fullText == "" {
		return nil, ErrEmptyTranscript
	}

	return &Normalized{
		FullText:   fullText,
		Language:   lang,
		TotalWords: CountWords(fullText),
	}, nil
}

func (a *Assembler) fetch(ctx context.Context, videoID string) ([]Segment, string, error) {
	logger := log.WithFields(log.Fields{"video_id": videoID, "source": a.source.Name()})

	fetchLang := func(ctx context.Context, lang string) ([]Segment, error) {
		return a.source.Fetch(ctx, videoID, lang)
	}
	if lister, ok := a.source.(Lister); ok {
		tracks, err := lister.List(ctx, videoID)
		if err != nil {
			return nil, "", a.failure(ctx, err)
		}
		fetchLang = tracks.Fetch
	}

	for _, lang := range a.languages {
		segments, err := fetchLang(ctx, lang)
		if err == nil {
			logger.WithField("language", lang).Debug("transcript found")
			return segments, lang, nil
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		// Every later attempt would fail the same way.
		if errors.Is(err, ErrVideoUnavailable) || errors.Is(err, ErrTranscriptsDisabled) {
			return nil, "", a.failure(ctx, err)
		}
		logger.WithField("language", lang).Debugf("no transcript: %v", err)
	}

	segments, err := fetchLang(ctx, "")
	if err == nil {
		logger.Debug("transcript found with automatic language")
		return segments, AutoLanguage, nil
	}
	return nil, "", a.failure(ctx, err)
}

// failure turns the error that ended the language walk into the assembler's
// result error.
func (a *Assembler) failure(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if isNoTranscript(err) {
		return fmt.Errorf("%w: %v", ErrNoTranscript, err)
	}
	return err
}

func isNoTranscript(err error) bool {
	if errors.Is(err, ErrTranscriptsDisabled) || errors.Is(err, ErrLanguageUnavailable) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "disabled") || strings.Contains(msg, "Could not get")
}
