package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"ytdigest/internal/models"
	"ytdigest/internal/transcript"
	"ytdigest/internal/videoid"
)

const sampleLen = 200

// VideoInfoLookup fetches optional video metadata.
type VideoInfoLookup interface {
	Lookup(ctx context.Context, videoID string) (*models.VideoInfo, error)
}

// DigestService runs the full pipeline for one request: resolve the video
// id, assemble the transcript, summarize and package the result.
type DigestService struct {
	assembler  *transcript.Assembler
	summarizer Summarizer
	videoInfo  VideoInfoLookup // nil disables metadata lookup
	history    *History        // nil disables history
	timeout    time.Duration
}

// NewDigestService creates a DigestService. timeout <= 0 means no deadline
// beyond the caller's context.
func NewDigestService(assembler *transcript.Assembler, summarizer Summarizer, videoInfo VideoInfoLookup, history *History, timeout time.Duration) *DigestService {
	return &DigestService{
		assembler:  assembler,
		summarizer: summarizer,
		videoInfo:  videoInfo,
		history:    history,
		timeout:    timeout,
	}
}

// SummarizerName reports which summarizer is configured.
func (s *DigestService) SummarizerName() string { return s.summarizer.Name() }

// History returns the recent digests store, or nil.
func (s *DigestService) History() *History { return s.history }

// ResolveVideoID picks the video id from a request. A non-empty videoId
// wins over url; videoId is run through the same extraction so full URLs
// are accepted in either field.
func ResolveVideoID(req models.SummarizeRequest) (string, error) {
	if id := strings.TrimSpace(req.VideoID); id != "" {
		if extracted := videoid.Extract(id); extracted != "" {
			id = extracted
		}
		if !videoid.IsValid(id) {
			return "", models.NewError(models.KindInvalidVideoID, id, nil)
		}
		return id, nil
	}

	id := videoid.Extract(req.URL)
	if id == "" {
		return "", models.NewError(models.KindInvalidInput, "", nil)
	}
	if !videoid.IsValid(id) {
		return "", models.NewError(models.KindInvalidVideoID, id, nil)
	}
	return id, nil
}

// ResolveMode defaults an empty mode to detailed and rejects unknown ones.
func ResolveMode(mode string) (string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return models.ModeDetailed, nil
	}
	if !models.ValidMode(mode) {
		return "", models.NewError(models.KindInvalidMode, "", fmt.Errorf("unknown mode %q", mode))
	}
	return mode, nil
}

// Digest builds the summary response for req. Every returned error is a
// *models.Error.
func (s *DigestService) Digest(ctx context.Context, req models.SummarizeRequest) (*models.Digest, error) {
	videoID, err := ResolveVideoID(req)
	if err != nil {
		return nil, err
	}
	mode, err := ResolveMode(req.Mode)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	logger := log.WithFields(log.Fields{"video_id": videoID, "mode": mode, "summarizer": s.summarizer.Name()})
	start := time.Now()

	infoCh := s.lookupVideoInfo(ctx, videoID)

	norm, err := s.assembler.Assemble(ctx, videoID)
	if err != nil {
		return nil, s.classify(ctx, err, videoID)
	}
	logger.Debugf("Transcript assembled: language=%s words=%d", norm.Language, norm.TotalWords)

	out, err := s.summarizer.Summarize(ctx, SummaryInput{VideoID: videoID, Mode: mode, Transcript: norm})
	if err != nil {
		return nil, s.classifySummaryError(ctx, err, videoID)
	}

	digest := &models.Digest{
		Success:    true,
		VideoID:    videoID,
		URL:        videoid.WatchURL(videoID),
		Mode:       mode,
		Summarizer: s.summarizer.Name(),
		Thumbnail: models.Thumbnails{
			Default: videoid.ThumbnailURL(videoID, videoid.ThumbDefault),
			Medium:  videoid.ThumbnailURL(videoID, videoid.ThumbMedium),
			High:    videoid.ThumbnailURL(videoID, videoid.ThumbHigh),
			MaxRes:  videoid.ThumbnailURL(videoID, videoid.ThumbMaxRes),
		},
		Video: <-infoCh,
		Transcript: models.TranscriptInfo{
			Language:   norm.Language,
			TotalWords: norm.TotalWords,
			UsedWords:  out.UsedWords,
			WasTrimmed: out.WasTrimmed,
			Sample:     Sample(out.UsedText, sampleLen),
		},
		Summary:     out.Summary,
		GeneratedAt: time.Now().UTC(),
	}

	if s.history != nil {
		s.history.Add(digest)
	}
	logger.Infof("Digest built in %s", time.Since(start).Round(time.Millisecond))
	return digest, nil
}

// Transcript resolves input to a video id and returns its normalized
// transcript.
func (s *DigestService) Transcript(ctx context.Context, input string) (string, *transcript.Normalized, error) {
	videoID, err := ResolveVideoID(models.SummarizeRequest{VideoID: input})
	if err != nil {
		return "", nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	norm, err := s.assembler.Assemble(ctx, videoID)
	if err != nil {
		return videoID, nil, s.classify(ctx, err, videoID)
	}
	return videoID, norm, nil
}

func (s *DigestService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

// lookupVideoInfo runs the metadata lookup alongside the transcript fetch.
// The channel always yields exactly one value; failures yield nil.
func (s *DigestService) lookupVideoInfo(ctx context.Context, videoID string) <-chan *models.VideoInfo {
	ch := make(chan *models.VideoInfo, 1)
	if s.videoInfo == nil {
		ch <- nil
		return ch
	}
	go func() {
		info, err := s.videoInfo.Lookup(ctx, videoID)
		if err != nil {
			log.WithField("video_id", videoID).Warnf("Video metadata lookup failed: %v", err)
			info = nil
		}
		ch <- info
	}()
	return ch
}

// classifySummaryError maps summarizer failures. Messages are not sniffed
// here: a provider's "model not found" says nothing about the video.
func (s *DigestService) classifySummaryError(ctx context.Context, err error, videoID string) *models.Error {
	var merr *models.Error
	switch {
	case errors.As(err, &merr):
		if merr.VideoID == "" {
			merr.VideoID = videoID
		}
		return merr
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), ctx.Err() != nil:
		return models.NewError(models.KindTimeout, videoID, err)
	}
	log.WithField("video_id", videoID).Errorf("Summarization failed: %v", err)
	return models.NewError(models.KindInternal, videoID, err)
}

// classify maps transcript failures onto the client-facing error kinds.
func (s *DigestService) classify(ctx context.Context, err error, videoID string) *models.Error {
	var merr *models.Error
	switch {
	case errors.As(err, &merr):
		if merr.VideoID == "" {
			merr.VideoID = videoID
		}
		return merr
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), ctx.Err() != nil:
		return models.NewError(models.KindTimeout, videoID, err)
	case errors.Is(err, transcript.ErrNoTranscript):
		return models.NewError(models.KindNoTranscript, videoID, err)
	case errors.Is(err, transcript.ErrEmptyTranscript):
		return models.NewError(models.KindEmptyTranscript, videoID, err)
	case errors.Is(err, transcript.ErrVideoUnavailable):
		return models.NewError(models.KindVideoUnavailable, videoID, err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not found") || strings.Contains(msg, "unavailable") {
		return models.NewError(models.KindVideoUnavailable, videoID, err)
	}

	log.WithField("video_id", videoID).Errorf("Unclassified pipeline error: %v", err)
	return models.NewError(models.KindInternal, videoID, err)
}

// Sample returns the first n runes of text, with "..." appended when text
// is longer.
func Sample(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
