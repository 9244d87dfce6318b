// Package videoinfo looks up video metadata through the YouTube Data API.
package videoinfo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytdigest/internal/models"
)

// ErrNotFound is returned when the API knows no video with the given id.
var ErrNotFound = errors.New("video not found")

// Client fetches title, channel and duration of a video.
type Client struct {
	svc *youtube.Service
}

// New creates a Client. Extra options (e.g. option.WithEndpoint) are
// passed through to the API client.
func New(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("youtube API key not provided")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	log.Info("YouTube Data API client initialized")
	return &Client{svc: svc}, nil
}

// Lookup returns metadata for videoID.
func (c *Client) Lookup(ctx context.Context, videoID string) (*models.VideoInfo, error) {
	resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos.list %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, videoID)
	}

	item := resp.Items[0]
	info := &models.VideoInfo{
		Title:   item.Snippet.Title,
		Channel: item.Snippet.ChannelTitle,
	}
	if item.ContentDetails != nil {
		info.Duration = FormatDuration(item.ContentDetails.Duration)
	}
	return info, nil
}

// FormatDuration turns an ISO 8601 duration such as "PT1H2M3S" into
// "1:02:03". Unparseable input is returned unchanged.
func FormatDuration(iso string) string {
	rest, ok := strings.CutPrefix(iso, "PT")
	if !ok || rest == "" {
		return iso
	}

	var h, m, s, n int
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			n = n*10 + int(r-'0')
		case r == 'H':
			h, n = n, 0
		case r == 'M':
			m, n = n, 0
		case r == 'S':
			s, n = n, 0
		default:
			return iso
		}
	}
	if n != 0 {
		return iso
	}
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
