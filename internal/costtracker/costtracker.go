// Package costtracker records LLM token usage and its estimated cost.
package costtracker

import (
	"context"
	"sync"
	"time"
)

// CostEvent represents a single AI usage event and its cost.
type CostEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	Operation    string    `json:"operation"` // e.g., "summarization"
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	VideoID      string    `json:"videoId,omitempty"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	AmountUSD    float64   `json:"amountUsd"`
}

// Totals aggregates all recorded events.
type Totals struct {
	Events       int     `json:"events"`
	InputTokens  int64   `json:"inputTokens"`
	OutputTokens int64   `json:"outputTokens"`
	AmountUSD    float64 `json:"amountUsd"`
}

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) error
	TotalCost(ctx context.Context) (float64, error)
	Summary(ctx context.Context) (Totals, error)
	Recent(ctx context.Context, limit int) ([]CostEvent, error)
}

// New returns a tracker that keeps at most maxEvents events in memory;
// totals cover every event ever recorded. maxEvents <= 0 means 100.
func New(maxEvents int) CostTracker {
	if maxEvents <= 0 {
		maxEvents = 100
	}
	return &memoryCostTracker{max: maxEvents}
}

type memoryCostTracker struct {
	mu     sync.Mutex
	max    int
	events []CostEvent
	totals Totals
}

func (m *memoryCostTracker) RecordCost(ctx context.Context, event CostEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	if len(m.events) > m.max {
		m.events = m.events[len(m.events)-m.max:]
	}
	m.totals.Events++
	m.totals.InputTokens += int64(event.InputTokens)
	m.totals.OutputTokens += int64(event.OutputTokens)
	m.totals.AmountUSD += event.AmountUSD
	return nil
}

func (m *memoryCostTracker) TotalCost(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.AmountUSD, nil
}

func (m *memoryCostTracker) Summary(ctx context.Context) (Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals, nil
}

// Recent returns up to limit events, newest first.
func (m *memoryCostTracker) Recent(ctx context.Context, limit int) ([]CostEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 || limit > len(m.events) {
		limit = len(m.events)
	}
	out := make([]CostEvent, 0, limit)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.events[i])
	}
	return out, nil
}
