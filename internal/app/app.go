package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"ytdigest/internal/config"
	"ytdigest/internal/costtracker"
	"ytdigest/internal/extractive"
	"ytdigest/internal/llm"
	"ytdigest/internal/netutil"
	"ytdigest/internal/services"
	"ytdigest/internal/transcript"
	"ytdigest/internal/transcript/watchpage"
	"ytdigest/internal/transcript/ytdlp"
	"ytdigest/internal/videoinfo"
)

type App struct {
	Config *config.Config

	TranscriptSource transcript.Source
	Assembler        *transcript.Assembler
	Completer        llm.Completer // nil unless summarizer.type is llm
	Summarizer       services.Summarizer
	VideoInfo        services.VideoInfoLookup // nil without a YouTube API key
	CostTracker      costtracker.CostTracker
	History          *services.History

	DigestService *services.DigestService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := app.initTranscriptSource(); err != nil {
		return nil, err
	}
	app.CostTracker = costtracker.New(0)
	app.History = services.NewHistory(cfg.History.Size)

	if err := app.initSummarizer(ctx); err != nil {
		app.Close()
		return nil, err
	}
	app.initVideoInfo(ctx)

	app.DigestService = services.NewDigestService(
		app.Assembler, app.Summarizer, app.VideoInfo, app.History, cfg.Server.RequestTimeout,
	)

	log.Debug("Application initialization complete.")
	return app, nil
}

// Model returns the LLM in use as "provider/model", or "" for the
// extractive summarizer.
func (a *App) Model() string {
	if a.Completer == nil {
		return ""
	}
	return a.Completer.Name() + "/" + a.Completer.ModelName()
}

// Close releases provider clients.
func (a *App) Close() {
	if c, ok := a.Completer.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warnf("Error closing completion provider: %v", err)
		}
	}
}

// --- Private Helper Methods ---

func (a *App) initTranscriptSource() error {
	cfg := a.Config.Transcript

	switch cfg.Source {
	case "ytdlp":
		a.TranscriptSource = ytdlp.New(cfg.YtdlpPath, cfg.YtdlpWorkDir)
	case "watchpage", "":
		a.TranscriptSource = watchpage.New(watchpage.Options{
			UserAgent: cfg.UserAgent,
			Client:    &http.Client{Timeout: 30 * time.Second},
			Retry: &netutil.SimpleRetryStrategy{
				MaxAttempts: cfg.MaxRetries,
				BaseDelayMs: cfg.RetryBaseDelay.Milliseconds(),
			},
		})
	default:
		return fmt.Errorf("unknown transcript source: %s", cfg.Source)
	}

	a.Assembler = transcript.NewAssembler(a.TranscriptSource, cfg.Languages)
	log.Debugf("Transcript source %s, languages %v", a.TranscriptSource.Name(), a.Assembler.Languages())
	return nil
}

func (a *App) initSummarizer(ctx context.Context) error {
	cfg := a.Config

	switch cfg.Summarizer.Type {
	case services.SummarizerLLM:
		completer, err := a.newCompleter(ctx)
		if err != nil {
			return err
		}
		a.Completer = completer

		// Load prompt using the helper function
		promptContent, err := config.LoadPromptContent(cfg.LLM.Prompt)
		if err != nil {
			log.Warnf("Failed to load summarization prompt: %v. Using the built-in prompt.", err)
			promptContent = ""
		}
		a.Summarizer = services.NewLLMSummarizer(
			completer, cfg.LLM.MaxWords, promptContent,
			a.CostTracker, cfg.Pricing[cfg.LLM.Provider],
		)
	case services.SummarizerExtractive, "":
		core := extractive.New(extractive.DefaultParams(), extractive.NewSegmenter(cfg.Summarizer.Segmenter))
		a.Summarizer = services.NewExtractiveSummarizer(core, cfg.Summarizer.MaxWords)
	default:
		return fmt.Errorf("unknown summarizer type: %s", cfg.Summarizer.Type)
	}
	return nil
}

func (a *App) newCompleter(ctx context.Context) (llm.Completer, error) {
	cfg := a.Config.LLM

	switch cfg.Provider {
	case "gemini":
		p, err := llm.NewGeminiProvider(ctx, cfg.GeminiApiKey, cfg.Model, cfg.MaxTokens)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini completion provider: %w", err)
		}
		return p, nil
	case "openai", "":
		return llm.NewOpenAIProvider(cfg.OpenaiApiKey, cfg.BaseURL, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown or unsupported LLM provider configured: %s", cfg.Provider)
	}
}

func (a *App) initVideoInfo(ctx context.Context) {
	key := a.Config.YouTube.ApiKey
	if key == "" {
		return
	}
	client, err := videoinfo.New(ctx, key)
	if err != nil {
		log.Warnf("Video metadata disabled: %v", err)
		return
	}
	a.VideoInfo = client
}
