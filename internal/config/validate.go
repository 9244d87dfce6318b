package config

import (
	"errors"
	"fmt"
)

/*
Validate checks the sections that must be consistent before the app is
wired:
- Server port and timeout
- Transcript source and its languages
- Summarizer type, and the LLM provider/key when the LLM summarizer is on
- History size
- Pricing (if present)
*/
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}

	switch c.Transcript.Source {
	case "watchpage", "ytdlp":
	default:
		return fmt.Errorf("transcript.source must be 'watchpage' or 'ytdlp', got %q", c.Transcript.Source)
	}
	if len(c.Transcript.Languages) == 0 {
		return errors.New("transcript.languages must list at least one language")
	}
	for _, lang := range c.Transcript.Languages {
		if lang == "" {
			return errors.New("transcript.languages contains an empty language code")
		}
	}
	if c.Transcript.MaxRetries < 0 {
		return errors.New("transcript.max_retries must not be negative")
	}

	if c.Summarizer.MaxWords <= 0 {
		return errors.New("summarizer.max_words must be a positive integer")
	}
	switch c.Summarizer.Type {
	case "extractive":
	case "llm":
		if err := c.validateLLM(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("summarizer.type must be 'extractive' or 'llm', got %q", c.Summarizer.Type)
	}

	if c.History.Size < 0 {
		return errors.New("history.size must not be negative")
	}

	for provider, models := range c.Pricing {
		for model, price := range models {
			if price.InputPerToken < 0 || price.OutputPerToken < 0 {
				return fmt.Errorf("pricing for provider '%s', model '%s' has negative token cost", provider, model)
			}
		}
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.Model == "" {
		return errors.New("llm.model is required when summarizer.type is 'llm'")
	}
	if c.LLM.MaxWords <= 0 {
		return errors.New("llm.max_words must be a positive integer")
	}
	switch c.LLM.Provider {
	case "openai":
		// A custom base URL may point at a local server that needs no key.
		if c.LLM.OpenaiApiKey == "" && c.LLM.BaseURL == "" {
			return errors.New("llm.openai_api_key (or OPENAI_API_KEY) is required for the openai provider")
		}
	case "gemini":
		if c.LLM.GeminiApiKey == "" {
			return errors.New("llm.gemini_api_key (or GEMINI_API_KEY) is required for the gemini provider")
		}
	default:
		return fmt.Errorf("llm.provider must be 'openai' or 'gemini', got %q", c.LLM.Provider)
	}
	return nil
}
