package apihandlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"ytdigest/internal/app"
	"ytdigest/internal/models"
)

type APIHandler struct {
	App *app.App
}

// NewAPIHandler creates a new handler instance with the application context.
func NewAPIHandler(app *app.App) *APIHandler {
	return &APIHandler{App: app}
}

// SummarizeHandler handles POST /api/summarize.
func (h *APIHandler) SummarizeHandler(c *gin.Context) {
	var req models.SummarizeRequest
	// A missing or malformed body is treated as an empty request so it
	// fails validation with INVALID_INPUT.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		log.WithField(requestIDKey, c.GetString(requestIDKey)).Debugf("Ignoring unreadable body: %v", err)
		req = models.SummarizeRequest{}
	}

	digest, err := h.App.DigestService.Digest(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, digest)
}

// HealthHandler handles GET /api/health.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	resp := gin.H{
		"status":           "ok",
		"timestamp":        time.Now().UTC(),
		"summarizer":       h.App.Summarizer.Name(),
		"transcriptSource": h.App.TranscriptSource.Name(),
	}
	if model := h.App.Model(); model != "" {
		resp["model"] = model
	}
	if h.App.CostTracker != nil {
		if totals, err := h.App.CostTracker.Summary(c.Request.Context()); err == nil {
			resp["usage"] = totals
		}
	}
	c.JSON(http.StatusOK, resp)
}

// HistoryHandler handles GET /api/history.
func (h *APIHandler) HistoryHandler(c *gin.Context) {
	entries := []models.HistoryEntry{}
	if h.App.History != nil {
		entries = h.App.History.List()
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": entries})
}
