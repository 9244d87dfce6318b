package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

type Config struct {
	Server struct {
		Addr           string        `mapstructure:"addr"`
		Port           string        `mapstructure:"port"`
		RequestTimeout time.Duration `mapstructure:"request_timeout"` // bounds all outbound calls of one request
		GinMode        string        `mapstructure:"gin_mode"`
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	Transcript struct {
		Source         string        `mapstructure:"source"` // "watchpage" or "ytdlp"
		Languages      []string      `mapstructure:"languages"`
		UserAgent      string        `mapstructure:"user_agent"`
		MaxRetries     int           `mapstructure:"max_retries"`
		RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
		YtdlpPath      string        `mapstructure:"ytdlp_path"`
		YtdlpWorkDir   string        `mapstructure:"ytdlp_workdir"`
	} `mapstructure:"transcript"`

	Summarizer struct {
		Type      string `mapstructure:"type"`      // "extractive" or "llm"
		MaxWords  int    `mapstructure:"max_words"` // word budget for the extractive summarizer
		Segmenter string `mapstructure:"segmenter"` // "punctuation" or "punkt"
	} `mapstructure:"summarizer"`

	LLM struct {
		Provider     string `mapstructure:"provider"` // "openai" or "gemini"
		Model        string `mapstructure:"model"`
		BaseURL      string `mapstructure:"base_url"` // OpenAI-compatible endpoint override
		MaxTokens    int    `mapstructure:"max_tokens"`
		MaxWords     int    `mapstructure:"max_words"`
		Prompt       string `mapstructure:"prompt"` // path to a system prompt override
		OpenaiApiKey string `mapstructure:"openai_api_key"`
		GeminiApiKey string `mapstructure:"gemini_api_key"`
	} `mapstructure:"llm"`

	YouTube struct {
		ApiKey string `mapstructure:"api_key"`
	} `mapstructure:"youtube"`

	History struct {
		Size int `mapstructure:"size"`
	} `mapstructure:"history"`

	// Pricing: map[provider][model] = struct{input_per_token, output_per_token}
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("server.gin_mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("transcript.source", "watchpage")
	v.SetDefault("transcript.languages", []string{"ar", "en", "fr", "de", "es", "tr", "it", "pt"})
	v.SetDefault("transcript.max_retries", 2)
	v.SetDefault("transcript.retry_base_delay", 250*time.Millisecond)
	v.SetDefault("transcript.ytdlp_path", "yt-dlp")

	v.SetDefault("summarizer.type", "extractive")
	v.SetDefault("summarizer.max_words", 500)
	v.SetDefault("summarizer.segmenter", "punctuation")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.max_tokens", 1500)
	v.SetDefault("llm.max_words", 12000)

	v.SetDefault("history.size", 10)
}

// LoadConfig reads config.yaml from the working directory or
// ~/.config/ytdigest, a .env file if present, and YTDIGEST_* variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "ytdigest"))
	}

	v.SetEnvPrefix("YTDIGEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys are also picked up under their conventional names.
	v.BindEnv("llm.openai_api_key", "YTDIGEST_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("llm.gemini_api_key", "YTDIGEST_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("youtube.api_key", "YTDIGEST_YOUTUBE_API_KEY", "YOUTUBE_API_KEY")
	v.BindEnv("server.port", "YTDIGEST_SERVER_PORT", "PORT")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug("Config file not found, using defaults and environment")
	} else {
		log.Debugf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &config, nil
}

// ConfigureLogging applies the log section to the global logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", c.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.Log.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
