package transcript

import "strings"

// DefaultMaxWords is the word budget handed to the extractive summarizer.
const DefaultMaxWords = 500

// boundaryThreshold is how far into the clipped window a sentence mark
// must sit before the clip is shortened to end on it.
const boundaryThreshold = 0.6

// Clipped is text cut down to a word budget.
type Clipped struct {
	Text      string
	WordCount int
}

// ClipToWords keeps at most maxWords words of text. When the cut lands
// mid-sentence and a sentence mark exists in the last 40% of the window,
// the result ends right after that mark instead.
func ClipToWords(text string, maxWords int) Clipped {
	if maxWords < 0 {
		maxWords = 0
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return Clipped{Text: text, WordCount: len(words)}
	}

	clipped := []rune(strings.Join(words[:maxWords], " "))
	if last := lastSentenceMark(clipped); float64(last) > float64(len(clipped))*boundaryThreshold {
		clipped = clipped[:last+1]
	}

	out := string(clipped)
	return Clipped{Text: out, WordCount: CountWords(out)}
}

func lastSentenceMark(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		switch runes[i] {
		case '.', '!', '?', '؟':
			return i
		}
	}
	return -1
}
