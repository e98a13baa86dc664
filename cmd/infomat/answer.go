package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"infomat-hq/infomat/pkg/billing"
	"infomat-hq/infomat/pkg/qa"
)

var answerFlags struct {
	user     string
	username string
	file     string
	docID    string
	title    string
}

var answerCmd = &cobra.Command{
	Use:   "answer [question]",
	Short: "Answer a question about a transcript",
	Long: `Answer a free-form question about a transcript, charging the user's
prepaid balance. The transcript is read from --file (plain text, or .tsv
with timed segments) or from stdin.

Examples:
  infomat answer --user 42 --file talk.txt "What are the key claims?"
  cat captions.tsv | infomat answer --user 42 --title "Launch Q&A" "Who presents?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnswer,
}

func init() {
	rootCmd.AddCommand(answerCmd)

	answerCmd.Flags().StringVarP(&answerFlags.user, "user", "u", "", "user id to bill")
	answerCmd.Flags().StringVar(&answerFlags.username, "username", "", "display name recorded on first contact")
	answerCmd.Flags().StringVarP(&answerFlags.file, "file", "f", "", "transcript file (default stdin)")
	answerCmd.Flags().StringVar(&answerFlags.docID, "doc-id", "", "stable document id, enables result memoization")
	answerCmd.Flags().StringVar(&answerFlags.title, "title", "", "video title; frames the question as being about a video")
	answerCmd.MarkFlagRequired("user")
}

// qaResult carries an answer together with the tokens it consumed
// through the billing gate.
type qaResult struct {
	text   string
	tokens int
}

func runAnswer(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.buildEngine(); err != nil {
		return err
	}

	doc, err := readDocument(answerFlags.file, answerFlags.docID, answerFlags.title)
	if err != nil {
		return err
	}
	question := args[0]

	ctx := cmd.Context()
	result, price, err := billing.ChargeFor(ctx, a.gate, answerFlags.user, answerFlags.username,
		doc.Text, "answer", func(ctx context.Context) (qaResult, error) {
			var text string
			var used int
			var err error
			if doc.Title != "" {
				text, used, err = a.answerer.AnswerVideo(ctx, question, doc)
			} else {
				text, used, err = a.answerer.Answer(ctx, question, doc)
			}
			return qaResult{text: text, tokens: used}, err
		})
	if err != nil {
		fmt.Fprintln(os.Stderr, qa.UserMessage(err))
		return err
	}

	fmt.Println(result.text)

	balance, _ := a.service.Lookup(ctx, answerFlags.user)
	fmt.Fprintf(os.Stderr, "tokens: %d, charged: %d, balance: %d\n", result.tokens, price, balance)
	return nil
}
