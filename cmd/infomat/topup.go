package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"infomat-hq/infomat/pkg/ledger"
)

var topupFlags struct {
	user     string
	username string
	amount   int64
	reason   string
	create   bool
}

var topupCmd = &cobra.Command{
	Use:   "topup",
	Short: "Credit a user's balance",
	Long: `Credit a user's balance by the given amount of minor currency units.

Examples:
  infomat topup --user 42 --amount 10000
  infomat topup --user 42 --amount 500 --reason refund
  infomat topup --user 99 --amount 10000 --create`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if topupFlags.create {
			if _, _, err := a.ledger.GetOrCreate(ctx, topupFlags.user, topupFlags.username,
				a.cfg.Pricing.WelcomeBalance); err != nil {
				return err
			}
		}

		err = a.service.TopUp(ctx, topupFlags.user, topupFlags.amount, topupFlags.reason)
		if errors.Is(err, ledger.ErrUserNotFound) {
			return fmt.Errorf("user %q not found (use --create to create it)", topupFlags.user)
		}
		if err != nil {
			return err
		}

		balance, err := a.service.Lookup(ctx, topupFlags.user)
		if err != nil {
			return err
		}
		fmt.Printf("credited %d, balance %d\n", topupFlags.amount, balance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(topupCmd)

	topupCmd.Flags().StringVarP(&topupFlags.user, "user", "u", "", "user id")
	topupCmd.Flags().StringVar(&topupFlags.username, "username", "", "display name used with --create")
	topupCmd.Flags().Int64VarP(&topupFlags.amount, "amount", "a", 0, "amount in minor currency units")
	topupCmd.Flags().StringVar(&topupFlags.reason, "reason", "", "transaction reason (default topup)")
	topupCmd.Flags().BoolVar(&topupFlags.create, "create", false, "create the user (with the welcome balance) if absent")
	topupCmd.MarkFlagRequired("user")
	topupCmd.MarkFlagRequired("amount")
}
