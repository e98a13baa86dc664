package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"infomat-hq/infomat/pkg/billing"
	"infomat-hq/infomat/pkg/qa"
)

var summarizeFlags struct {
	user      string
	username  string
	file      string
	docID     string
	title     string
	timecodes bool
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a transcript",
	Long: `Summarize a transcript, charging the user's prepaid balance. With
--timecodes and a segmented (.tsv) transcript, each section of the
summary is prefixed with the timecode where it starts.

Examples:
  infomat summarize --user 42 --file talk.txt
  infomat summarize --user 42 --file captions.tsv --timecodes`,
	Args: cobra.NoArgs,
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	summarizeCmd.Flags().StringVarP(&summarizeFlags.user, "user", "u", "", "user id to bill")
	summarizeCmd.Flags().StringVar(&summarizeFlags.username, "username", "", "display name recorded on first contact")
	summarizeCmd.Flags().StringVarP(&summarizeFlags.file, "file", "f", "", "transcript file (default stdin)")
	summarizeCmd.Flags().StringVar(&summarizeFlags.docID, "doc-id", "", "stable document id, enables result memoization")
	summarizeCmd.Flags().StringVar(&summarizeFlags.title, "title", "", "video title")
	summarizeCmd.Flags().BoolVar(&summarizeFlags.timecodes, "timecodes", false, "prefix summary sections with timecodes")
	summarizeCmd.MarkFlagRequired("user")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.buildEngine(); err != nil {
		return err
	}

	doc, err := readDocument(summarizeFlags.file, summarizeFlags.docID, summarizeFlags.title)
	if err != nil {
		return err
	}

	reason := "summarize"
	if summarizeFlags.timecodes {
		reason = "timecodes"
	}

	ctx := cmd.Context()
	result, price, err := billing.ChargeFor(ctx, a.gate, summarizeFlags.user, summarizeFlags.username,
		doc.Text, reason, func(ctx context.Context) (qaResult, error) {
			var text string
			var used int
			var err error
			if summarizeFlags.timecodes {
				text, used, err = a.answerer.TimecodeSummary(ctx, doc)
			} else {
				text, used, err = a.answerer.Summarize(ctx, doc)
			}
			return qaResult{text: text, tokens: used}, err
		})
	if err != nil {
		fmt.Fprintln(os.Stderr, qa.UserMessage(err))
		return err
	}

	fmt.Println(result.text)

	balance, _ := a.service.Lookup(ctx, summarizeFlags.user)
	fmt.Fprintf(os.Stderr, "tokens: %d, charged: %d, balance: %d\n", result.tokens, price, balance)
	return nil
}
