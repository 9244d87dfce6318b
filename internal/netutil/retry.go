package netutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// RetryStrategy decides how long to wait before the next attempt.
type RetryStrategy interface {
	NextBackoff(attempt int) int64 // ms, negative means stop
}

// SimpleRetryStrategy provides basic exponential backoff.
type SimpleRetryStrategy struct {
	MaxAttempts int
	BaseDelayMs int64
}

// NextBackoff calculates the next backoff duration in milliseconds.
func (s *SimpleRetryStrategy) NextBackoff(attempt int) int64 {
	if s.MaxAttempts <= 0 || attempt >= s.MaxAttempts {
		return -1
	}
	backoff := s.BaseDelayMs * (1 << attempt)
	maxDelay := int64(30000)
	if backoff > maxDelay {
		backoff = maxDelay
	}
	return backoff
}

// StatusError is returned by GetWithRetry for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// GetWithRetry issues a GET and returns at most maxBytes of the body.
// Transport errors and 429/5xx responses are retried per strategy; other
// statuses come back as *StatusError immediately.
func GetWithRetry(ctx context.Context, client *http.Client, strategy RetryStrategy, url string, header http.Header, maxBytes int64) ([]byte, error) {
	attempt := 0
	for {
		body, err := get(ctx, client, url, header, maxBytes)
		if err == nil {
			return body, nil
		}
		var se *StatusError
		if errors.As(err, &se) && !retryable(se.StatusCode) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		delay := int64(-1)
		if strategy != nil {
			delay = strategy.NextBackoff(attempt)
		}
		if delay < 0 {
			return nil, err
		}
		log.WithFields(log.Fields{"url": url, "attempt": attempt + 1}).Debugf("retrying after error: %v", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(delay) * time.Millisecond):
		}
		attempt++
	}
}

func get(ctx context.Context, client *http.Client, url string, header http.Header, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBytes))
}
