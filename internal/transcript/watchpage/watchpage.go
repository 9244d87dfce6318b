// Package watchpage fetches captions by reading the player response embedded
// in a YouTube watch page and downloading the selected timedtext track.
package watchpage

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ytdigest/internal/netutil"
	"ytdigest/internal/transcript"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

const (
	defaultBaseURL   = "https://www.youtube.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	playerMarker     = "ytInitialPlayerResponse = "
	maxPageBytes     = 4 << 20
	maxTrackBytes    = 1 << 20
)

// Options configures a Source. Zero values pick sensible defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	Retry     netutil.RetryStrategy
}

// Source implements transcript.Source against the public watch page.
type Source struct {
	baseURL   string
	userAgent string
	client    *http.Client
	retry     netutil.RetryStrategy
}

// New creates a watch page Source.
func New(opts Options) *Source {
	s := &Source{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		client:    opts.Client,
		retry:     opts.Retry,
	}
	if s.baseURL == "" {
		s.baseURL = defaultBaseURL
	}
	if s.userAgent == "" {
		s.userAgent = defaultUserAgent
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: 30 * time.Second}
	}
	return s
}

// Name returns the source name.
func (s *Source) Name() string { return "watchpage" }

// --- player response shapes ---

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		Renderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
}

type timedText struct {
	Lines []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Text  string  `xml:",chardata"`
	} `xml:"text"`
}

// Fetch returns the caption segments of videoID in lang, or of the best
// available track when lang is empty.
func (s *Source) Fetch(ctx context.Context, videoID, lang string) ([]transcript.Segment, error) {
	tracks, err := s.List(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return tracks.Fetch(ctx, lang)
}

// List loads the watch page once and returns its caption tracks.
func (s *Source) List(ctx context.Context, videoID string) (transcript.Tracks, error) {
	tracks, err := s.captionTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &trackList{source: s, videoID: videoID, tracks: tracks}, nil
}

type trackList struct {
	source  *Source
	videoID string
	tracks  []captionTrack
}

func (l *trackList) Fetch(ctx context.Context, lang string) ([]transcript.Segment, error) {
	track, ok := pickTrack(l.tracks, lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", transcript.ErrLanguageUnavailable, lang)
	}

	log.WithFields(log.Fields{
		"video_id": l.videoID,
		"language": track.LanguageCode,
		"kind":     track.Kind,
	}).Debug("fetching caption track")

	s := l.source
	body, err := netutil.GetWithRetry(ctx, s.client, s.retry, track.BaseURL, s.header(), maxTrackBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch caption track: %w", err)
	}
	return parseTimedText(body)
}

func (s *Source) header() http.Header {
	h := http.Header{}
	h.Set("User-Agent", s.userAgent)
	h.Set("Accept-Language", "en-US,en;q=0.9")
	return h
}

func (s *Source) captionTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	pageURL := s.baseURL + "/watch?" + url.Values{"v": {videoID}, "hl": {"en"}}.Encode()
	page, err := netutil.GetWithRetry(ctx, s.client, s.retry, pageURL, s.header(), maxPageBytes)
	if err != nil {
		var se *netutil.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: watch page returned 404", transcript.ErrVideoUnavailable)
		}
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	player, err := extractPlayerResponse(page)
	if err != nil {
		return nil, err
	}

	switch player.PlayabilityStatus.Status {
	case "ERROR", "UNPLAYABLE":
		return nil, fmt.Errorf("%w: %s", transcript.ErrVideoUnavailable, player.PlayabilityStatus.Reason)
	}
	if player.Captions == nil || len(player.Captions.Renderer.CaptionTracks) == 0 {
		return nil, transcript.ErrTranscriptsDisabled
	}
	return player.Captions.Renderer.CaptionTracks, nil
}

// extractPlayerResponse walks the page's script elements looking for the
// inline player response assignment and decodes the JSON value after it.
func extractPlayerResponse(page []byte) (*playerResponse, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	var script string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if script != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "script" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			if strings.Contains(n.FirstChild.Data, playerMarker) {
				script = n.FirstChild.Data
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	if script == "" {
		return nil, errors.New("player response not found in watch page")
	}

	raw := script[strings.Index(script, playerMarker)+len(playerMarker):]
	var player playerResponse
	// Decode stops after the first JSON value and ignores the trailing ";var ...".
	if err := json.NewDecoder(strings.NewReader(raw)).Decode(&player); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	return &player, nil
}

// pickTrack prefers a manual track over an auto-generated one. An empty
// lang accepts any language.
func pickTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	matches := func(t captionTrack) bool {
		return lang == "" || t.LanguageCode == lang || strings.HasPrefix(t.LanguageCode, lang+"-")
	}
	for _, t := range tracks {
		if matches(t) && t.Kind != "asr" {
			return t, true
		}
	}
	for _, t := range tracks {
		if matches(t) {
			return t, true
		}
	}
	return captionTrack{}, false
}

func parseTimedText(body []byte) ([]transcript.Segment, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}
	segments := make([]transcript.Segment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		segments = append(segments, transcript.Segment{
			Text:     line.Text,
			Start:    seconds(line.Start),
			Duration: seconds(line.Dur),
		})
	}
	return segments, nil
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

var (
	_ transcript.Source = (*Source)(nil)
	_ transcript.Lister = (*Source)(nil)
)
