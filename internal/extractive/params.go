package extractive

// Params holds the tunables of the extractive summarizer. The defaults are
// empirical; changing them is a product decision.
type Params struct {
	MinSentenceLen int // sentences shorter than this (in characters) are ignored
	FallbackChars  int // shortSummary length when no sentence qualifies

	MinTermLen int // terms must be strictly longer than this

	SummaryDivisor      int // summary size is sentences / SummaryDivisor ...
	MinSummarySentences int // ... clamped to [Min, Max]
	MaxSummarySentences int
	MaxKeyPoints        int
	MaxTopics           int

	KeyPointMaxLen int // key points longer than this are cut to KeyPointCutLen + "..."
	KeyPointCutLen int

	EdgeBonus    float64 // first or last sentence
	LeadBonus    float64 // within the first LeadFraction of sentences
	LeadFraction float64

	ShortSentenceLen int
	ShortPenalty     float64
	LongSentenceLen  int
	LongPenalty      float64
}

// DefaultParams returns the standard tuning.
func DefaultParams() Params {
	return Params{
		MinSentenceLen: 40,
		FallbackChars:  300,

		MinTermLen: 3,

		SummaryDivisor:      4,
		MinSummarySentences: 1,
		MaxSummarySentences: 3,
		MaxKeyPoints:        5,
		MaxTopics:           5,

		KeyPointMaxLen: 150,
		KeyPointCutLen: 147,

		EdgeBonus:    1.3,
		LeadBonus:    1.15,
		LeadFraction: 0.2,

		ShortSentenceLen: 50,
		ShortPenalty:     0.7,
		LongSentenceLen:  300,
		LongPenalty:      0.85,
	}
}
