package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ytdigest/internal/llm"
	"ytdigest/internal/models"
	"ytdigest/internal/transcript"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, messages []llm.Message) (llm.Completion, error) {
	args := m.Called(ctx, messages)
	return args.Get(0).(llm.Completion), args.Error(1)
}

func (m *mockCompleter) Name() string      { return "openai" }
func (m *mockCompleter) ModelName() string { return "gpt-4o-mini" }

type mockVideoInfo struct {
	mock.Mock
}

func (m *mockVideoInfo) Lookup(ctx context.Context, videoID string) (*models.VideoInfo, error) {
	args := m.Called(ctx, videoID)
	info, _ := args.Get(0).(*models.VideoInfo)
	return info, args.Error(1)
}

// stubSource answers every language with the same result.
type stubSource struct {
	segments []transcript.Segment
	err      error
	block    bool
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(ctx context.Context, videoID, lang string) ([]transcript.Segment, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.segments, s.err
}

func segments(texts ...string) []transcript.Segment {
	out := make([]transcript.Segment, len(texts))
	for i, t := range texts {
		out[i] = transcript.Segment{Text: t}
	}
	return out
}
