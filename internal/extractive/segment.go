package extractive

import (
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	log "github.com/sirupsen/logrus"
)

// Segmenter splits text into candidate sentences.
type Segmenter interface {
	Split(text string) []string
}

// Segmenter names accepted by NewSegmenter.
const (
	SegmenterPunctuation = "punctuation"
	SegmenterPunkt       = "punkt"
)

// NewSegmenter returns the named segmenter, defaulting to punctuation.
func NewSegmenter(name string) Segmenter {
	if name == SegmenterPunkt {
		punkt, err := NewPunktSegmenter()
		if err == nil {
			return punkt
		}
		log.Warnf("punkt segmenter unavailable, using punctuation: %v", err)
	}
	return PunctuationSegmenter{}
}

// PunctuationSegmenter breaks after '.', '!', '?' or '؟' when whitespace
// follows, and after every newline. It knows nothing about abbreviations
// or decimals.
type PunctuationSegmenter struct{}

func (PunctuationSegmenter) Split(text string) []string {
	runes := []rune(text)
	var parts []string
	start := 0
	for i, r := range runes {
		switch {
		case r == '\n':
			parts = append(parts, string(runes[start:i+1]))
			start = i + 1
		case isSentenceMark(r) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]):
			parts = append(parts, string(runes[start:i+1]))
			start = i + 1
		}
	}
	parts = append(parts, string(runes[start:]))
	return trimNonEmpty(parts)
}

// PunktSegmenter uses the punkt tokenizer trained on English, which
// handles abbreviations and decimals.
type PunktSegmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewPunktSegmenter() (*PunktSegmenter, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &PunktSegmenter{tokenizer: tokenizer}, nil
}

func (p *PunktSegmenter) Split(text string) []string {
	sents := p.tokenizer.Tokenize(text)
	parts := make([]string, 0, len(sents))
	for _, s := range sents {
		parts = append(parts, s.Text)
	}
	return trimNonEmpty(parts)
}

func isSentenceMark(r rune) bool {
	switch r {
	case '.', '!', '?', '؟':
		return true
	}
	return false
}

func trimNonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
