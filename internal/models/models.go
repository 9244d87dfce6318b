package models

import "time"

// Summary modes accepted by the API.
const (
	ModeDetailed = "detailed"
	ModeBrief    = "brief"
	ModeBullets  = "bullets"
)

// ValidMode reports whether mode is one of the supported summary modes.
func ValidMode(mode string) bool {
	switch mode {
	case ModeDetailed, ModeBrief, ModeBullets:
		return true
	}
	return false
}

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	URL     string `json:"url"`
	VideoID string `json:"videoId"`
	Mode    string `json:"mode"`
}

// Thumbnails holds the static thumbnail URLs of a video.
type Thumbnails struct {
	Default string `json:"default"`
	Medium  string `json:"medium"`
	High    string `json:"high"`
	MaxRes  string `json:"maxres"`
}

// TranscriptInfo describes the transcript a digest was built from.
type TranscriptInfo struct {
	Language   string `json:"language"`
	TotalWords int    `json:"totalWords"`
	UsedWords  int    `json:"usedWords"`
	WasTrimmed bool   `json:"wasTrimmed"`
	Sample     string `json:"sample"`
}

// SummaryStats are derived reading statistics.
type SummaryStats struct {
	Sentences   int `json:"sentences"`
	Words       int `json:"words"`
	ReadSeconds int `json:"readSeconds"`
}

// Summary is the summarizer output as sent to clients. The optional
// fields are only filled by the LLM summarizer.
type Summary struct {
	Title        string       `json:"title,omitempty"`
	Channel      string       `json:"channel,omitempty"`
	ShortSummary string       `json:"shortSummary"`
	KeyPoints    []string     `json:"keyPoints"`
	Topics       []string     `json:"topics"`
	Verdict      string       `json:"verdict,omitempty"`
	Language     string       `json:"language,omitempty"`
	Stats        SummaryStats `json:"stats"`
}

// VideoInfo is optional metadata from the YouTube Data API.
type VideoInfo struct {
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	Duration string `json:"duration,omitempty"`
}

// Digest is the success body of POST /api/summarize.
type Digest struct {
	Success     bool           `json:"success"`
	VideoID     string         `json:"videoId"`
	URL         string         `json:"url"`
	Mode        string         `json:"mode"`
	Summarizer  string         `json:"summarizer"`
	Thumbnail   Thumbnails     `json:"thumbnail"`
	Video       *VideoInfo     `json:"video,omitempty"`
	Transcript  TranscriptInfo `json:"transcript"`
	Summary     Summary        `json:"summary"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// HistoryEntry is a compact record of a recent digest.
type HistoryEntry struct {
	ID           string    `json:"id"`
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title,omitempty"`
	Mode         string    `json:"mode"`
	Summarizer   string    `json:"summarizer"`
	ShortSummary string    `json:"shortSummary"`
	CreatedAt    time.Time `json:"createdAt"`
}
