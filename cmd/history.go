package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ytdigest/internal/clix"
	"ytdigest/internal/models"
)

var historyServer string

// historyCmd lists the recent digests kept by a running server.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent summaries of a running server",
	Long:  `Queries GET /api/history of a running "ytdigest serve" and prints the newest entries first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Entries []models.HistoryEntry `json:"entries"`
		}
		if err := fetchJSON(cmd.Context(), historyServer, "/api/history", &resp); err != nil {
			return err
		}

		entries := resp.Entries
		if limit := clix.ParseLimit(cmd.Flags()); len(entries) > limit {
			entries = entries[:limit]
		}
		if len(entries) == 0 {
			fmt.Println("No history found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Video", "Title", "Mode", "Summarizer", "Created At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, e := range entries {
			table.Append([]string{
				e.VideoID,
				e.Title,
				e.Mode,
				e.Summarizer,
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Maximum number of history entries to show")
	historyCmd.Flags().StringVar(&historyServer, "server", defaultServer, "Base URL of the ytdigest server")
	rootCmd.AddCommand(historyCmd)
}
