package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ytdigest/internal/models"
)

// DefaultHistorySize is how many recent digests are kept.
const DefaultHistorySize = 10

// History is a fixed-size, newest-first record of successful digests held
// in process memory.
type History struct {
	mu      sync.Mutex
	size    int
	entries []models.HistoryEntry
}

// NewHistory creates a History. size <= 0 uses DefaultHistorySize.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size, entries: make([]models.HistoryEntry, 0, size)}
}

// Add records d and drops the oldest entry when full.
func (h *History) Add(d *models.Digest) models.HistoryEntry {
	entry := models.HistoryEntry{
		ID:           uuid.NewString(),
		VideoID:      d.VideoID,
		Title:        d.Summary.Title,
		Mode:         d.Mode,
		Summarizer:   d.Summarizer,
		ShortSummary: d.Summary.ShortSummary,
		CreatedAt:    d.GeneratedAt,
	}
	if entry.Title == "" && d.Video != nil {
		entry.Title = d.Video.Title
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]models.HistoryEntry{entry}, h.entries...)
	if len(h.entries) > h.size {
		h.entries = h.entries[:h.size]
	}
	return entry
}

// List returns a copy of the entries, newest first.
func (h *History) List() []models.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
