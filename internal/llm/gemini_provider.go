package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiProvider implements Completer using the Google Gemini API.
type GeminiProvider struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGeminiProvider creates a Gemini completion provider.
func NewGeminiProvider(ctx context.Context, apiKey, model string, maxTokens int) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key not provided")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	log.Infof("Gemini completion provider initialized with model %s", model)
	return &GeminiProvider{client: client, model: model, maxTokens: maxTokens}, nil
}

func (p *GeminiProvider) Name() string      { return "gemini" }
func (p *GeminiProvider) ModelName() string { return p.model }

// Complete sends system messages as the system instruction and the rest as
// user content, asking for a JSON reply.
func (p *GeminiProvider) Complete(ctx context.Context, messages []Message) (Completion, error) {
	model := p.client.GenerativeModel(p.model)
	model.ResponseMIMEType = "application/json"
	if p.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(p.maxTokens))
	}

	var system []string
	var parts []genai.Part
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		parts = append(parts, genai.Text(m.Content))
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(strings.Join(system, "\n\n"))}}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return Completion{}, &APIError{Provider: p.Name(), StatusCode: gerr.Code, Err: err}
		}
		return Completion{}, fmt.Errorf("gemini GenerateContent failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Completion{}, errors.New("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	out := Completion{Text: sb.String()}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return out, nil
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

var _ Completer = (*GeminiProvider)(nil)
