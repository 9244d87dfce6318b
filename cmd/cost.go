package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytdigest/internal/costtracker"
)

var costServer string

// costCmd shows LLM usage recorded by a running server.
var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Show LLM token usage and cost of a running server",
	Long:  `Reads the usage totals reported by GET /api/health of a running "ytdigest serve".`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var health struct {
			Summarizer string             `json:"summarizer"`
			Model      string             `json:"model"`
			Usage      costtracker.Totals `json:"usage"`
		}
		if err := fetchJSON(cmd.Context(), costServer, "/api/health", &health); err != nil {
			return err
		}

		fmt.Println("AI Usage Cost Summary:")
		fmt.Println("----------------------")
		fmt.Printf("Summarizer:          %s\n", health.Summarizer)
		if health.Model != "" {
			fmt.Printf("Model:               %s\n", health.Model)
		}
		fmt.Printf("Requests:            %d\n", health.Usage.Events)
		fmt.Printf("Total Input Tokens:  %d\n", health.Usage.InputTokens)
		fmt.Printf("Total Output Tokens: %d\n", health.Usage.OutputTokens)
		fmt.Printf("Total Cost:          $%.6f\n", health.Usage.AmountUSD)
		fmt.Println("----------------------")
		return nil
	},
}

func init() {
	costCmd.Flags().StringVar(&costServer, "server", defaultServer, "Base URL of the ytdigest server")
	rootCmd.AddCommand(costCmd)
}
