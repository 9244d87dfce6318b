package transcript

import (
	"regexp"
	"strings"
)

var (
	bracketedRE  = regexp.MustCompile(`\[.*?\]`) // [Music], [تصفيق]
	parenRE      = regexp.MustCompile(`\(.*?\)`)
	numericRefRE = regexp.MustCompile(`&#\d+;`)
	namedRefRE   = regexp.MustCompile(`&\w+;`)
)

// CleanSegment strips caption annotations and HTML character references
// from a single segment and collapses its whitespace.
func CleanSegment(text string) string {
	text = bracketedRE.ReplaceAllString(text, "")
	text = parenRE.ReplaceAllString(text, "")
	text = numericRefRE.ReplaceAllString(text, " ")
	text = namedRefRE.ReplaceAllString(text, " ")
	return collapseSpaces(text)
}

// JoinSegments cleans every segment and joins the non-empty ones with a
// single space.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if cleaned := CleanSegment(s.Text); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return collapseSpaces(strings.Join(parts, " "))
}

// CountWords counts whitespace separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
