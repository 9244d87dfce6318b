package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the closed set of failure classes reported to API clients.
type ErrorKind string

const (
	KindMethodNotAllowed   ErrorKind = "METHOD_NOT_ALLOWED"
	KindInvalidInput       ErrorKind = "INVALID_INPUT"
	KindInvalidVideoID     ErrorKind = "INVALID_VIDEO_ID"
	KindInvalidMode        ErrorKind = "INVALID_MODE"
	KindNoTranscript       ErrorKind = "NO_TRANSCRIPT"
	KindEmptyTranscript    ErrorKind = "EMPTY_TRANSCRIPT"
	KindVideoUnavailable   ErrorKind = "VIDEO_UNAVAILABLE"
	KindVideoTooLong       ErrorKind = "VIDEO_TOO_LONG"
	KindTimeout            ErrorKind = "TIMEOUT"
	KindInvalidAPIKey      ErrorKind = "INVALID_API_KEY"
	KindRateLimited        ErrorKind = "RATE_LIMITED"
	KindServiceUnavailable ErrorKind = "SERVICE_UNAVAILABLE"
	KindInternal           ErrorKind = "INTERNAL_ERROR"
)

var kindStatus = map[ErrorKind]int{
	KindMethodNotAllowed:   http.StatusMethodNotAllowed,
	KindInvalidInput:       http.StatusBadRequest,
	KindInvalidVideoID:     http.StatusBadRequest,
	KindInvalidMode:        http.StatusBadRequest,
	KindNoTranscript:       http.StatusNotFound,
	KindEmptyTranscript:    http.StatusUnprocessableEntity,
	KindVideoUnavailable:   http.StatusNotFound,
	KindVideoTooLong:       http.StatusUnprocessableEntity,
	KindTimeout:            http.StatusRequestTimeout,
	KindInvalidAPIKey:      http.StatusUnauthorized,
	KindRateLimited:        http.StatusTooManyRequests,
	KindServiceUnavailable: http.StatusServiceUnavailable,
	KindInternal:           http.StatusInternalServerError,
}

var kindMessage = map[ErrorKind]string{
	KindMethodNotAllowed:   "The request method is not allowed for this endpoint.",
	KindInvalidInput:       `Send "url" or "videoId" in the request body.`,
	KindInvalidVideoID:     "The video ID is not valid.",
	KindInvalidMode:        "Unsupported summary mode.",
	KindNoTranscript:       "No transcript is available for this video. Make sure it has captions (CC).",
	KindEmptyTranscript:    "The transcript exists but contains no usable text.",
	KindVideoUnavailable:   "The video is unavailable or has been removed.",
	KindVideoTooLong:       "The video is too long to summarize.",
	KindTimeout:            "Fetching the transcript took too long. Please try again.",
	KindInvalidAPIKey:      "The summarization API key is invalid.",
	KindRateLimited:        "Rate limit reached. Please try again later.",
	KindServiceUnavailable: "The summarization service is temporarily unavailable.",
	KindInternal:           "An internal error occurred. Please try again.",
}

// Status returns the HTTP status for the kind.
func (k ErrorKind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// DefaultMessage returns the client-facing message for the kind.
func (k ErrorKind) DefaultMessage() string {
	if m, ok := kindMessage[k]; ok {
		return m
	}
	return kindMessage[KindInternal]
}

// Error is a classified failure. Err carries the internal cause and is
// never shown to clients.
type Error struct {
	Kind    ErrorKind
	Message string
	VideoID string
	Err     error
}

// NewError builds an Error with the kind's default message.
func NewError(kind ErrorKind, videoID string, cause error) *Error {
	return &Error{Kind: kind, Message: kind.DefaultMessage(), VideoID: videoID, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError classifies err. Anything that is not an *Error becomes
// INTERNAL_ERROR with the original kept as cause.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewError(KindInternal, "", err)
}
