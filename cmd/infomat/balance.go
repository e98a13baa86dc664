package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"infomat-hq/infomat/pkg/ledger"
)

var balanceFlags struct {
	user string
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show a user's balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		balance, err := a.service.Lookup(cmd.Context(), balanceFlags.user)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return fmt.Errorf("user %q not found", balanceFlags.user)
		}
		if err != nil {
			return err
		}
		fmt.Println(balance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVarP(&balanceFlags.user, "user", "u", "", "user id")
	balanceCmd.MarkFlagRequired("user")
}
