package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var tenantFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &tenantFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "leadmagnet",
		Short:         "Turn videos into branded lead magnets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipSetup(cmd) {
				return nil
			}
			return ctx.ensure()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&tenantFlag, "tenant", "t", "", "Tenant id (overrides the configured tenant)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit machine-readable JSON output")

	for _, cmd := range newAuthCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newSubmitCommand(ctx))
	rootCmd.AddCommand(newGenerateCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newBalanceCommand(ctx))
	rootCmd.AddCommand(newTopUpCommand(ctx))
	rootCmd.AddCommand(newCheckoutCommand(ctx))
	rootCmd.AddCommand(newPortalCommand(ctx))
	rootCmd.AddCommand(newAuditCommand(ctx))
	rootCmd.AddCommand(newBrandingCommand(ctx))
	rootCmd.AddCommand(newAssetsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
