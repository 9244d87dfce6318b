package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ytdigest/internal/app"
	"ytdigest/internal/clix"
	"ytdigest/internal/config"
)

// Commands that talk to a running server and need no local app.
var clientCommands = map[string]bool{"history": true, "cost": true}

var rootCmd = &cobra.Command{
	Use:   "ytdigest",
	Short: "Summarize YouTube videos from their captions",
	Long: `ytdigest fetches the caption track of a YouTube video and turns it into a
short summary, key points and topics, either with a local extractive
summarizer or an LLM. Run it as an HTTP API with "serve" or one-shot with
"summarize".`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || clientCommands[cmd.Name()] {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ConfigureLogging()
		applyFlagOverrides(cmd, cfg)

		if cmd.Name() != "doctor" {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
		}

		appInstance, err := app.NewApp(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store the app instance in the command's context
		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			appInstance.Close()
		}
	},
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if langs := clix.ParseLanguages(flags); len(langs) > 0 {
		cfg.Transcript.Languages = langs
	}
	if flags.Changed("summarizer") {
		cfg.Summarizer.Type, _ = flags.GetString("summarizer")
	}
	if flags.Changed("source") {
		cfg.Transcript.Source, _ = flags.GetString("source")
	}
	if flags.Changed("verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("lang", "", "Comma separated caption languages to try, in order (overrides config)")
	pf.String("summarizer", "", "Summarizer to use: extractive or llm (overrides config)")
	pf.String("source", "", "Transcript source: watchpage or ytdlp (overrides config)")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, yt-dlp and API keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}
		cfg := appInstance.Config

		ok := color.GreenString("ok")
		failed := 0
		check := func(name string, err error) {
			if err != nil {
				failed++
				fmt.Printf("  %-22s %s %v\n", name, color.RedString("FAIL"), err)
				return
			}
			fmt.Printf("  %-22s %s\n", name, ok)
		}
		info := func(name, value string) {
			fmt.Printf("  %-22s %s\n", name, color.CyanString(value))
		}

		fmt.Println("Configuration:")
		check("config", cfg.Validate())
		info("transcript source", appInstance.TranscriptSource.Name())
		info("languages", fmt.Sprint(appInstance.Assembler.Languages()))
		info("summarizer", appInstance.Summarizer.Name())
		if model := appInstance.Model(); model != "" {
			info("model", model)
		}

		fmt.Println("Dependencies:")
		if _, err := exec.LookPath(cfg.Transcript.YtdlpPath); err != nil {
			if cfg.Transcript.Source == "ytdlp" {
				check("yt-dlp", err)
			} else {
				fmt.Printf("  %-22s %s\n", "yt-dlp", color.YellowString("not found (only needed for source=ytdlp)"))
			}
		} else {
			check("yt-dlp", nil)
		}

		if appInstance.Completer != nil {
			check("llm api key", llmKeyPresent(cfg))
		}
		if cfg.YouTube.ApiKey == "" {
			fmt.Printf("  %-22s %s\n", "youtube api key", color.YellowString("not set (video metadata disabled)"))
		} else {
			check("youtube api key", nil)
		}

		if failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

func llmKeyPresent(cfg *config.Config) error {
	switch cfg.LLM.Provider {
	case "gemini":
		if cfg.LLM.GeminiApiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
	default:
		if cfg.LLM.OpenaiApiKey == "" && cfg.LLM.BaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	}
	return nil
}
