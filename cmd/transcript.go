package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ytdigest/internal/models"
	"ytdigest/internal/transcript"
)

var (
	transcriptStatsOnly bool
	transcriptMaxWords  int
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript <url|video-id>",
	Short: "Fetch and print the cleaned transcript of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		videoID, norm, err := appInstance.DigestService.Transcript(cmd.Context(), args[0])
		if err != nil {
			e := models.AsError(err)
			return fmt.Errorf("%s: %s", e.Kind, e.Message)
		}

		text, words := norm.FullText, norm.TotalWords
		if transcriptMaxWords > 0 {
			clipped := transcript.ClipToWords(norm.FullText, transcriptMaxWords)
			text, words = clipped.Text, clipped.WordCount
		}

		fmt.Printf("%s %s  %s %s  %s %d",
			color.CyanString("video"), videoID,
			color.CyanString("language"), norm.Language,
			color.CyanString("words"), norm.TotalWords)
		if words != norm.TotalWords {
			fmt.Printf(" (showing %d)", words)
		}
		fmt.Println()

		if !transcriptStatsOnly {
			fmt.Println()
			fmt.Println(text)
		}
		return nil
	},
}

func init() {
	transcriptCmd.Flags().BoolVar(&transcriptStatsOnly, "stats", false, "Only print language and word count")
	transcriptCmd.Flags().IntVar(&transcriptMaxWords, "max-words", 0, "Clip the transcript to this many words")
	rootCmd.AddCommand(transcriptCmd)
}
