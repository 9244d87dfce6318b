package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"ytdigest/internal/clix"
	"ytdigest/internal/models"
)

var summarizeJSON bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize <url|video-id>",
	Short: "Summarize one video and print the result",
	Example: `  ytdigest summarize https://youtu.be/dQw4w9WgXcQ
  ytdigest summarize dQw4w9WgXcQ --mode bullets --summarizer llm
  ytdigest summarize dQw4w9WgXcQ --lang en --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		mode, err := clix.ParseMode(cmd.Flags())
		if err != nil {
			return err
		}

		digest, err := appInstance.DigestService.Digest(cmd.Context(), models.SummarizeRequest{VideoID: args[0], Mode: mode})
		if err != nil {
			e := models.AsError(err)
			return fmt.Errorf("%s: %s", e.Kind, e.Message)
		}

		if summarizeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(digest)
		}
		printDigest(os.Stdout, digest)
		return nil
	},
}

func printDigest(w io.Writer, d *models.Digest) {
	bold := color.New(color.Bold)
	title := d.Summary.Title
	if title == "" && d.Video != nil {
		title = d.Video.Title
	}
	if title != "" {
		bold.Fprintln(w, title)
	}
	fmt.Fprintln(w, color.CyanString(d.URL))
	if d.Video != nil && d.Video.Channel != "" {
		fmt.Fprintf(w, "%s  %s\n", d.Video.Channel, d.Video.Duration)
	}

	fmt.Fprintf(w, "\nlanguage %s | %d of %d words used | %d sentences | ~%ds read | %s/%s\n",
		d.Transcript.Language, d.Transcript.UsedWords, d.Transcript.TotalWords,
		d.Summary.Stats.Sentences, d.Summary.Stats.ReadSeconds, d.Summarizer, d.Mode)
	if d.Transcript.WasTrimmed {
		fmt.Fprintln(w, color.YellowString("transcript was trimmed to the word budget"))
	}

	if d.Summary.ShortSummary != "" {
		bold.Fprintln(w, "\nSummary")
		fmt.Fprintln(w, d.Summary.ShortSummary)
	}

	if len(d.Summary.KeyPoints) > 0 {
		bold.Fprintln(w, "\nKey points")
		table := tablewriter.NewWriter(w)
		table.SetBorder(false)
		table.SetAutoWrapText(true)
		table.SetColWidth(90)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for i, p := range d.Summary.KeyPoints {
			table.Append([]string{strconv.Itoa(i + 1), p})
		}
		table.Render()
	}

	if len(d.Summary.Topics) > 0 {
		fmt.Fprintf(w, "\n%s %s\n", bold.Sprint("Topics:"), color.GreenString(strings.Join(d.Summary.Topics, ", ")))
	}
	if d.Summary.Verdict != "" {
		fmt.Fprintf(w, "%s %s\n", bold.Sprint("Verdict:"), d.Summary.Verdict)
	}
}

func init() {
	summarizeCmd.Flags().StringP("mode", "m", models.ModeDetailed, "Summary mode: detailed, brief or bullets")
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "Print the raw JSON response")
	rootCmd.AddCommand(summarizeCmd)
}
