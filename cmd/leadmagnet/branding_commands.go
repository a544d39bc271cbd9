package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBrandingCommand(ctx *commandContext) *cobra.Command {
	brandingCmd := &cobra.Command{
		Use:   "branding",
		Short: "View and update the tenant's white-label branding",
	}
	brandingCmd.AddCommand(newBrandingShowCommand(ctx))
	brandingCmd.AddCommand(newBrandingSetCommand(ctx))
	return brandingCmd
}

func newBrandingShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the tenant's branding",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			b, err := ctx.branding.Load(cmd.Context())
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, b)
			}
			rows := [][]string{
				{"Name", b.Name},
				{"Logo URL", b.LogoURL},
				{"Primary color", b.PrimaryColor},
				{"Accent color", b.AccentColor},
				{"Domain", b.Domain},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

func newBrandingSetCommand(ctx *commandContext) *cobra.Command {
	var name, logoURL, primary, accent, domain string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the tenant's branding (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}

			// Start from the stored record so an unset flag keeps its value.
			b, err := ctx.branding.Load(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				b.Name = name
			}
			if cmd.Flags().Changed("logo-url") {
				b.LogoURL = logoURL
			}
			if cmd.Flags().Changed("primary-color") {
				b.PrimaryColor = primary
			}
			if cmd.Flags().Changed("accent-color") {
				b.AccentColor = accent
			}
			if cmd.Flags().Changed("domain") {
				b.Domain = domain
			}

			if err := ctx.branding.Save(cmd.Context(), b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Branding saved for %s\n", ctx.cfg.Tenant)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name shown on generated assets")
	cmd.Flags().StringVar(&logoURL, "logo-url", "", "Logo image URL")
	cmd.Flags().StringVar(&primary, "primary-color", "", "Primary color (hex)")
	cmd.Flags().StringVar(&accent, "accent-color", "", "Accent color (hex)")
	cmd.Flags().StringVar(&domain, "domain", "", "Custom domain for published pages")
	return cmd
}
