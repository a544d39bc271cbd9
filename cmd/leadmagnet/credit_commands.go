package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/credits"
)

func newBalanceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the tenant's credit balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			balance, err := ctx.credits.Refresh(cmd.Context())
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"balance": balance,
					"low":     balance < credits.LowBalanceThreshold,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Credit balance: %d\n", balance)
			if balance < credits.LowBalanceThreshold {
				fmt.Fprintln(cmd.OutOrStdout(), "Balance is low; top up with 'leadmagnet topup' or 'leadmagnet checkout'")
			}
			return nil
		},
	}
}

func newTopUpCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "topup <amount>",
		Short: "Add credits to the tenant (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			amount, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("amount must be a whole number: %q", args[0])
			}
			if err := ctx.credits.TopUp(cmd.Context(), amount); err != nil {
				return err
			}

			balance, err := ctx.credits.Refresh(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Top-up accepted")
				return nil
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"balance": balance})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Top-up accepted; balance is now %d\n", balance)
			return nil
		},
	}
}

func newCheckoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Open a hosted checkout session to buy credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			url, err := ctx.billing.StartCheckout(cmd.Context(), ctx.session.Email())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"url": url})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to complete checkout:\n%s\n", url)
			fmt.Fprintln(cmd.OutOrStdout(), "Credits appear on the next 'leadmagnet balance' after payment settles")
			return nil
		},
	}
}

func newPortalCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "portal",
		Short: "Open the hosted billing portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			url, err := ctx.billing.OpenPortal(cmd.Context(), ctx.session.Email())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"url": url})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to manage billing:\n%s\n", url)
			return nil
		},
	}
}
