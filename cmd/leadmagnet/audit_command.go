package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent tenant activity, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			entries, err := ctx.audit.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audit entries visible for this account")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Timestamp.Local().Format(time.RFC3339),
					entry.Action,
					entry.UserID,
					entry.Details,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Time", "Action", "User", "Details"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to show (default 50)")
	return cmd
}
