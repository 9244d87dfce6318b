// Package extractive builds a summary by ranking and selecting sentences of
// the source text by term frequency, position and length.
package extractive

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"ytdigest/internal/transcript"
)

// Result is the output of a summarization run.
type Result struct {
	ShortSummary  string
	KeyPoints     []string
	Topics        []string
	SentenceCount int
}

// ScoredSentence is a sentence with its position and rank score.
type ScoredSentence struct {
	Sentence string
	Index    int
	Score    float64
}

// Summarizer ranks sentences with a fixed set of Params.
type Summarizer struct {
	params    Params
	segmenter Segmenter
}

// New creates a Summarizer. A nil segmenter means punctuation splitting.
func New(params Params, segmenter Segmenter) *Summarizer {
	if segmenter == nil {
		segmenter = PunctuationSegmenter{}
	}
	return &Summarizer{params: params, segmenter: segmenter}
}

// BuildSummary summarizes clipped text with the default tuning.
func BuildSummary(clipped transcript.Clipped) Result {
	return New(DefaultParams(), nil).Summarize(clipped.Text)
}

// Summarize never fails; text with no usable sentence yields a truncated
// prefix of the input as the summary.
func (s *Summarizer) Summarize(text string) Result {
	p := s.params

	var sentences []string
	for _, sent := range s.segmenter.Split(text) {
		if runeLen(sent) >= p.MinSentenceLen {
			sentences = append(sentences, sent)
		}
	}
	if len(sentences) == 0 {
		return Result{
			ShortSummary: truncateRunes(text, p.FallbackChars),
			KeyPoints:    []string{},
			Topics:       []string{},
		}
	}

	freq := s.TermFrequencies(text)

	scored := make([]ScoredSentence, len(sentences))
	for i, sent := range sentences {
		scored[i] = ScoredSentence{Sentence: sent, Index: i, Score: s.score(sent, freq, i, len(sentences))}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	summaryCount := len(sentences) / p.SummaryDivisor
	if summaryCount < p.MinSummarySentences {
		summaryCount = p.MinSummarySentences
	}
	if summaryCount > p.MaxSummarySentences {
		summaryCount = p.MaxSummarySentences
	}

	top := byIndex(window(scored, 0, summaryCount))
	parts := make([]string, len(top))
	for i, sc := range top {
		parts[i] = sc.Sentence
	}

	rest := byIndex(window(scored, summaryCount, summaryCount+p.MaxKeyPoints))
	keyPoints := make([]string, len(rest))
	for i, sc := range rest {
		keyPoints[i] = s.formatKeyPoint(sc.Sentence)
	}

	return Result{
		ShortSummary:  strings.TrimSpace(strings.Join(parts, " ")),
		KeyPoints:     keyPoints,
		Topics:        s.topics(freq),
		SentenceCount: len(sentences),
	}
}

// TermFrequencies holds term counts in first-occurrence order.
type TermFrequencies struct {
	order  []string
	counts map[string]int
}

// Count returns how often term occurred.
func (tf TermFrequencies) Count(term string) int { return tf.counts[term] }

// Len returns the number of distinct terms.
func (tf TermFrequencies) Len() int { return len(tf.order) }

// TermFrequencies counts the qualifying, non stop-word terms of text.
func (s *Summarizer) TermFrequencies(text string) TermFrequencies {
	tf := TermFrequencies{counts: make(map[string]int)}
	for _, term := range s.terms(text) {
		if stopWords[term] {
			continue
		}
		if _, seen := tf.counts[term]; !seen {
			tf.order = append(tf.order, term)
		}
		tf.counts[term]++
	}
	return tf
}

// terms lowercases text, blanks everything outside the Arabic block, ASCII
// letters, digits and whitespace, and keeps tokens longer than MinTermLen.
func (s *Summarizer) terms(text string) []string {
	normalized := strings.Map(func(r rune) rune {
		switch {
		case r >= 0x0600 && r <= 0x06FF, r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			return r
		}
		return ' '
	}, strings.ToLower(text))

	var out []string
	for _, w := range strings.Fields(normalized) {
		if runeLen(w) > s.params.MinTermLen {
			out = append(out, w)
		}
	}
	return out
}

// score is mean term frequency times position bonus times length penalty.
// Stop words are absent from freq and so contribute zero.
func (s *Summarizer) score(sentence string, freq TermFrequencies, index, total int) float64 {
	p := s.params
	words := s.terms(sentence)
	if len(words) == 0 {
		return 0
	}

	sum := 0
	for _, w := range words {
		sum += freq.Count(w)
	}
	freqScore := float64(sum) / float64(len(words))

	positionBonus := 1.0
	switch {
	case index == 0 || index == total-1:
		positionBonus = p.EdgeBonus
	case float64(index) < float64(total)*p.LeadFraction:
		positionBonus = p.LeadBonus
	}

	lengthPenalty := 1.0
	switch n := runeLen(sentence); {
	case n < p.ShortSentenceLen:
		lengthPenalty = p.ShortPenalty
	case n > p.LongSentenceLen:
		lengthPenalty = p.LongPenalty
	}

	return freqScore * positionBonus * lengthPenalty
}

func (s *Summarizer) formatKeyPoint(sentence string) string {
	if runeLen(sentence) > s.params.KeyPointMaxLen {
		sentence = truncateRunes(sentence, s.params.KeyPointCutLen) + "..."
	}
	last, _ := utf8.DecodeLastRuneInString(sentence)
	if !isSentenceMark(last) {
		sentence += "."
	}
	return sentence
}

func (s *Summarizer) topics(freq TermFrequencies) []string {
	terms := append([]string(nil), freq.order...)
	sort.SliceStable(terms, func(i, j int) bool { return freq.counts[terms[i]] > freq.counts[terms[j]] })
	if len(terms) > s.params.MaxTopics {
		terms = terms[:s.params.MaxTopics]
	}
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = capitalize(t)
	}
	return out
}

func window(scored []ScoredSentence, from, to int) []ScoredSentence {
	if from > len(scored) {
		from = len(scored)
	}
	if to > len(scored) {
		to = len(scored)
	}
	return append([]ScoredSentence(nil), scored[from:to]...)
}

func byIndex(scored []ScoredSentence) []ScoredSentence {
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Index < scored[j].Index })
	return scored
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
