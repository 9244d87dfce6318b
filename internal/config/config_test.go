package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into a fresh temp dir so no stray config.yaml or .env
// is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "watchpage", cfg.Transcript.Source)
	assert.Equal(t, []string{"ar", "en", "fr", "de", "es", "tr", "it", "pt"}, cfg.Transcript.Languages)
	assert.Equal(t, "extractive", cfg.Summarizer.Type)
	assert.Equal(t, 500, cfg.Summarizer.MaxWords)
	assert.Equal(t, 12000, cfg.LLM.MaxWords)
	assert.Equal(t, 10, cfg.History.Size)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	yaml := `
server:
  port: "9090"
  request_timeout: 15s
summarizer:
  type: llm
llm:
  provider: gemini
  model: gemini-1.5-flash
pricing:
  openai:
    gpt-4o-mini:
      input_per_token: 0.00000015
      output_per_token: 0.0000006
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("YTDIGEST_TRANSCRIPT_SOURCE", "ytdlp")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "ytdlp", cfg.Transcript.Source)
	assert.Equal(t, "gem-key", cfg.LLM.GeminiApiKey)
	assert.InDelta(t, 0.0000006, cfg.Pricing["openai"]["gpt-4o-mini"].OutputPerToken, 1e-12)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	chdirTemp(t)
	base, err := LoadConfig()
	require.NoError(t, err)

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad source", func(c *Config) { c.Transcript.Source = "rss" }, "transcript.source"},
		{"no languages", func(c *Config) { c.Transcript.Languages = nil }, "transcript.languages"},
		{"bad summarizer", func(c *Config) { c.Summarizer.Type = "magic" }, "summarizer.type"},
		{"llm without key", func(c *Config) { c.Summarizer.Type = "llm"; c.LLM.OpenaiApiKey = "" }, "openai_api_key"},
		{"negative price", func(c *Config) {
			c.Pricing = map[string]map[string]PricingInfo{"openai": {"m": {InputPerToken: -1}}}
		}, "negative token cost"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *base
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	llm := *base
	llm.Summarizer.Type = "llm"
	llm.LLM.BaseURL = "http://localhost:11434/v1"
	assert.NoError(t, llm.Validate(), "a custom base URL does not need a key")
}

func TestLoadPromptContent(t *testing.T) {
	dir := chdirTemp(t)

	got, err := LoadPromptContent("")
	require.NoError(t, err)
	assert.Empty(t, got)

	abs := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(abs, []byte("be brief"), 0o600))
	got, err = LoadPromptContent(abs)
	require.NoError(t, err)
	assert.Equal(t, "be brief", got)

	_, err = LoadPromptContent("missing.txt")
	assert.Error(t, err)
}
