package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"infomat-hq/infomat/pkg/ledger"
)

var transactionsFlags struct {
	user string
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List a user's transaction history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		txns, err := a.service.Transactions(cmd.Context(), transactionsFlags.user)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return fmt.Errorf("user %q not found", transactionsFlags.user)
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CREATED\tDELTA\tREASON\tID")
		for _, txn := range txns {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				txn.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
				txn.Delta, txn.Reason, txn.ID)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(transactionsCmd)

	transactionsCmd.Flags().StringVarP(&transactionsFlags.user, "user", "u", "", "user id")
	transactionsCmd.MarkFlagRequired("user")
}
