package videoid

import (
	"fmt"
	"regexp"
	"strings"
)

// patterns are tried in order; the first capture wins.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([\w-]{11})`), // youtube.com/watch?v=ID
	regexp.MustCompile(`youtu\.be/([\w-]{11})`),
	regexp.MustCompile(`shorts/([\w-]{11})`),
	regexp.MustCompile(`embed/([\w-]{11})`),
	regexp.MustCompile(`live/([\w-]{11})`),
	regexp.MustCompile(`^([\w-]{11})$`), // bare ID
}

var validID = regexp.MustCompile(`^[\w-]{11}$`)

// Extract pulls a video ID out of a YouTube URL or a bare ID.
// It returns "" when nothing matches.
func Extract(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	for _, p := range patterns {
		if m := p.FindStringSubmatch(input); m != nil {
			return m[1]
		}
	}
	return ""
}

// IsValid reports whether id is exactly 11 characters of [A-Za-z0-9_-].
func IsValid(id string) bool {
	return validID.MatchString(id)
}

// WatchURL returns the canonical watch page URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Thumbnail qualities served by img.youtube.com.
const (
	ThumbDefault = "default"
	ThumbMedium  = "mqdefault"
	ThumbHigh    = "hqdefault"
	ThumbMaxRes  = "maxresdefault"
)

// ThumbnailURL builds the static thumbnail URL for id at the given quality.
func ThumbnailURL(id, quality string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", id, quality)
}
