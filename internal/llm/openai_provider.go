package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// ChatCompletionCreator defines the minimal interface for OpenAI chat completions.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider implements Completer with the OpenAI chat API or any
// server that speaks it.
type OpenAIProvider struct {
	client    ChatCompletionCreator
	model     string
	maxTokens int
	jsonMode  bool
}

// NewOpenAIProvider creates a provider. A non-empty baseURL points the client
// at an OpenAI-compatible server; JSON response mode is only requested from
// the official API.
func NewOpenAIProvider(apiKey, baseURL, model string, maxTokens int) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	log.Infof("OpenAI completion provider initialized with model %s", model)
	return NewOpenAIProviderWithClient(openai.NewClientWithConfig(cfg), model, maxTokens, baseURL == "")
}

// NewOpenAIProviderWithClient creates a provider around an existing client.
func NewOpenAIProviderWithClient(client ChatCompletionCreator, model string, maxTokens int, jsonMode bool) *OpenAIProvider {
	return &OpenAIProvider{client: client, model: model, maxTokens: maxTokens, jsonMode: jsonMode}
}

func (p *OpenAIProvider) Name() string      { return "openai" }
func (p *OpenAIProvider) ModelName() string { return p.model }

func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message) (Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages:  make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	if p.jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Completion{}, p.wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, errors.New("openai: no completion choices returned")
	}

	return Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func (p *OpenAIProvider) wrapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{Provider: p.Name(), StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{Provider: p.Name(), StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return fmt.Errorf("openai completion: %w", err)
}

var _ Completer = (*OpenAIProvider)(nil)
