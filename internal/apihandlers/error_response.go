package apihandlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ytdigest/internal/models"
)

// APIError defines standard error response
// Example: { "success": false, "error": { "code": "INVALID_VIDEO_ID", "message": "..." }, "timestamp": "..." }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success   bool      `json:"success"`
	Error     APIError  `json:"error"`
	Timestamp time.Time `json:"timestamp"`
	VideoID   string    `json:"videoId,omitempty"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, code, msg, videoID string) {
	ctx.AbortWithStatusJSON(status, errorResponse{
		Error:     APIError{Code: code, Message: msg},
		Timestamp: time.Now().UTC(),
		VideoID:   videoID,
	})
}

// RespondError classifies err and writes it. Internal causes are logged,
// never sent.
func RespondError(ctx *gin.Context, err error) {
	e := models.AsError(err)
	entry := log.WithFields(log.Fields{
		"code":       e.Kind,
		"video_id":   e.VideoID,
		"request_id": ctx.GetString(requestIDKey),
	})
	if e.Kind == models.KindInternal {
		entry.Errorf("Request failed: %v", err)
	} else {
		entry.Infof("Request rejected: %v", err)
	}

	msg := e.Message
	if msg == "" {
		msg = e.Kind.DefaultMessage()
	}
	JSONError(ctx, e.Kind.Status(), string(e.Kind), msg, e.VideoID)
}

// MethodNotAllowed answers a known path requested with the wrong method.
// The Allow header and the message list the methods registered for the path.
func MethodNotAllowed(routes gin.RoutesInfo) gin.HandlerFunc {
	allowed := map[string][]string{}
	for _, r := range routes {
		allowed[r.Path] = append(allowed[r.Path], r.Method)
	}
	return func(ctx *gin.Context) {
		e := models.NewError(models.KindMethodNotAllowed, "", fmt.Errorf("%s %s", ctx.Request.Method, ctx.Request.URL.Path))
		if methods := allowed[ctx.Request.URL.Path]; len(methods) > 0 {
			methods = append([]string(nil), methods...)
			sort.Strings(methods)
			list := strings.Join(methods, ", ")
			ctx.Header("Allow", list)
			e.Message = "This endpoint accepts only: " + list + "."
		}
		RespondError(ctx, e)
	}
}

// Convenience wrappers

func NotFound(ctx *gin.Context) {
	JSONError(ctx, http.StatusNotFound, "NOT_FOUND", "No such endpoint.", "")
}
