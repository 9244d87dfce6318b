package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"ytdigest/internal/config"
	"ytdigest/internal/costtracker"
	"ytdigest/internal/extractive"
	"ytdigest/internal/llm"
	"ytdigest/internal/models"
)

// DefaultLLMMaxWords bounds the transcript sent to the model.
const DefaultLLMMaxWords = 12000

const (
	defaultTitle = "YouTube video"
	maxTopics    = 5
)

const basePrompt = `You are an assistant that summarizes video content.
Your task: analyze the video transcript and produce a structured summary.
Write in the language of the transcript.`

var modeInstructions = map[string]string{
	models.ModeDetailed: `- Write a comprehensive summary covering the main idea and the supporting ideas.
- Extract 4-6 clear key points.
- Add a short assessment of the content quality.`,
	models.ModeBrief: `- Write a dense summary in 2-3 sentences that gives only the core idea.
- Extract the 2-3 essential points.
- Be concise and precise.`,
	models.ModeBullets: `- Focus on points and facts only, no prose summary.
- Extract 6-8 detailed points covering the whole content.
- Order the points logically (introduction, details, conclusion).`,
}

const replySchema = `Reply with valid JSON only, exactly in this shape, with no text outside it:
{
  "title": "inferred video title (5-10 words)",
  "channel": "channel name if mentioned, or null",
  "duration": null,
  "language": "original language of the video",
  "summary": "the summary text (null for bullets)",
  "keyPoints": ["point 1", "point 2"],
  "topics": ["topic 1", "topic 2", "topic 3"],
  "verdict": "a very short one-sentence assessment of the content"
}`

// LLMSummarizer delegates summarization to a chat completion model.
type LLMSummarizer struct {
	completer    llm.Completer
	maxWords     int
	systemPrompt string
	costs        costtracker.CostTracker
	pricing      map[string]config.PricingInfo
}

// NewLLMSummarizer creates a model-backed summarizer. A non-empty
// systemPrompt replaces the built-in role description; the mode
// instructions and reply schema are always appended. costs may be nil.
func NewLLMSummarizer(completer llm.Completer, maxWords int, systemPrompt string, costs costtracker.CostTracker, pricing map[string]config.PricingInfo) *LLMSummarizer {
	if maxWords <= 0 {
		maxWords = DefaultLLMMaxWords
	}
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = basePrompt
	}
	return &LLMSummarizer{
		completer:    completer,
		maxWords:     maxWords,
		systemPrompt: systemPrompt,
		costs:        costs,
		pricing:      pricing,
	}
}

func (s *LLMSummarizer) Name() string { return SummarizerLLM }

// Model returns the provider and model in use, e.g. "openai/gpt-4o-mini".
func (s *LLMSummarizer) Model() string {
	return s.completer.Name() + "/" + s.completer.ModelName()
}

func (s *LLMSummarizer) Summarize(ctx context.Context, in SummaryInput) (*SummaryOutput, error) {
	words := strings.Fields(in.Transcript.FullText)
	if len(words) > 2*s.maxWords {
		return nil, models.NewError(models.KindVideoTooLong, in.VideoID,
			fmt.Errorf("transcript has %d words, limit is %d", len(words), 2*s.maxWords))
	}

	text := in.Transcript.FullText
	trimmed := len(words) > s.maxWords
	used := len(words)
	if trimmed {
		text = strings.Join(words[:s.maxWords], " ") + "..."
		used = s.maxWords
	}

	mode := in.Mode
	if !models.ValidMode(mode) {
		mode = models.ModeDetailed
	}

	completion, err := s.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: s.buildSystemPrompt(mode)},
		{Role: llm.RoleUser, Content: buildUserPrompt(text, mode)},
	})
	if err != nil {
		return nil, classifyLLMError(err, in.VideoID)
	}
	s.recordCost(ctx, in.VideoID, completion.Usage)

	summary := ParseReply(completion.Text)
	summary.Stats = models.SummaryStats{
		Sentences:   len(extractive.PunctuationSegmenter{}.Split(summary.ShortSummary)),
		Words:       used,
		ReadSeconds: readSeconds(used),
	}

	return &SummaryOutput{
		Summary:    summary,
		UsedText:   text,
		UsedWords:  used,
		WasTrimmed: trimmed,
	}, nil
}

func (s *LLMSummarizer) buildSystemPrompt(mode string) string {
	return fmt.Sprintf("%s\n\nRequested summary type: %s\n%s\n\n%s",
		s.systemPrompt, mode, modeInstructions[mode], replySchema)
}

func buildUserPrompt(text, mode string) string {
	return fmt.Sprintf("Below is the transcript extracted from the video captions. Summarize it as %q:\n\n---\n%s\n---\n\nReply with JSON only.", mode, text)
}

func (s *LLMSummarizer) recordCost(ctx context.Context, videoID string, usage llm.Usage) {
	if s.costs == nil || usage.PromptTokens+usage.CompletionTokens == 0 {
		return
	}
	price, ok := s.pricing[s.completer.ModelName()]
	if !ok {
		log.Warnf("Pricing info not found for model '%s'. Recording tokens without cost.", s.completer.ModelName())
	}
	event := costtracker.CostEvent{
		Operation:    "summarization",
		Provider:     s.completer.Name(),
		Model:        s.completer.ModelName(),
		VideoID:      videoID,
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
		AmountUSD: float64(usage.PromptTokens)*price.InputPerToken +
			float64(usage.CompletionTokens)*price.OutputPerToken,
	}
	if err := s.costs.RecordCost(ctx, event); err != nil {
		log.Errorf("Failed to record AI usage for summarization: %v", err)
		return
	}
	log.Debugf("Recorded AI usage: Provider=%s, Model=%s, InputTokens=%d, OutputTokens=%d, Cost=%.8f",
		event.Provider, event.Model, event.InputTokens, event.OutputTokens, event.AmountUSD)
}

func classifyLLMError(err error, videoID string) error {
	var apiErr *llm.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("llm summarization: %w", err)
	}
	switch {
	case apiErr.Unauthorized():
		return models.NewError(models.KindInvalidAPIKey, videoID, err)
	case apiErr.RateLimited():
		return models.NewError(models.KindRateLimited, videoID, err)
	case apiErr.Overloaded():
		return models.NewError(models.KindServiceUnavailable, videoID, err)
	}
	return models.NewError(models.KindInternal, videoID, fmt.Errorf("llm summarization: %w", err))
}

var (
	fenceOpenRE  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	fenceCloseRE = regexp.MustCompile("\\s*```$")
)

// ParseReply decodes a model reply. Markdown code fences are stripped
// first; a reply that is not a JSON object becomes the summary text.
func ParseReply(raw string) models.Summary {
	cleaned := strings.TrimSpace(raw)
	cleaned = fenceOpenRE.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(fenceCloseRE.ReplaceAllString(cleaned, ""))

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		log.Warnf("Could not decode model reply as JSON, returning raw text: %v", err)
		return models.Summary{
			Title:        defaultTitle,
			ShortSummary: raw,
			KeyPoints:    []string{},
			Topics:       []string{},
		}
	}

	out := models.Summary{
		Title:        stringField(fields, "title"),
		Channel:      stringField(fields, "channel"),
		ShortSummary: stringField(fields, "summary"),
		KeyPoints:    stringsField(fields, "keyPoints"),
		Topics:       stringsField(fields, "topics"),
		Verdict:      stringField(fields, "verdict"),
		Language:     stringField(fields, "language"),
	}
	if out.Title == "" {
		out.Title = defaultTitle
	}
	if len(out.Topics) > maxTopics {
		out.Topics = out.Topics[:maxTopics]
	}
	return out
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return strings.TrimSpace(s)
}

func stringsField(fields map[string]any, key string) []string {
	out := []string{}
	items, ok := fields[key].([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
