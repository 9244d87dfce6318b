package transcript

import (
	"context"
	"errors"
	"time"
)

// AutoLanguage is recorded when the source picked the track itself.
const AutoLanguage = "auto"

// DefaultLanguages is the order in which caption languages are requested.
var DefaultLanguages = []string{"ar", "en", "fr", "de", "es", "tr", "it", "pt"}

// Errors returned by a Source. Implementations wrap these so the assembler
// can tell a missing language apart from a missing video.
var (
	ErrLanguageUnavailable = errors.New("no caption track for requested language")
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	ErrVideoUnavailable    = errors.New("video unavailable")
)

// Errors returned by the Assembler.
var (
	ErrNoTranscript    = errors.New("no transcript available")
	ErrEmptyTranscript = errors.New("transcript is empty after cleaning")
)

// Segment is one timed caption entry.
type Segment struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

// Source fetches caption segments for a video. An empty lang asks the
// source to choose a track on its own.
type Source interface {
	Name() string
	Fetch(ctx context.Context, videoID, lang string) ([]Segment, error)
}

// Lister is implemented by sources that resolve every track of a video in
// one request. The assembler lists once per call and picks languages from
// the result.
type Lister interface {
	List(ctx context.Context, videoID string) (Tracks, error)
}

// Tracks is a resolved track list. An empty lang picks a track on its own.
type Tracks interface {
	Fetch(ctx context.Context, lang string) ([]Segment, error)
}

// Normalized is the cleaned, joined transcript of a video.
type Normalized struct {
	FullText   string
	Language   string
	TotalWords int
}
