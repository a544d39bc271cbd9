package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/assets"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/jobs"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "List, edit, and export generated lead-magnet drafts",
	}
	assetsCmd.AddCommand(newAssetsListCommand(ctx))
	assetsCmd.AddCommand(newAssetsShowCommand(ctx))
	assetsCmd.AddCommand(newAssetsEditCommand(ctx))
	assetsCmd.AddCommand(newAssetsExportCommand(ctx))
	return assetsCmd
}

func newAssetsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the assets from the last generation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			assetIDs, ok := ctx.jobs.AssetIDs()
			if !ok {
				return errors.New("no generated assets yet; run 'leadmagnet generate' first")
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"asset_ids": assetIDs})
			}
			rows := make([][]string, 0, len(assetIDs))
			kinds := jobs.AssetKinds()
			for i, assetID := range assetIDs {
				kind := ""
				if i < len(kinds) {
					kind = kinds[i]
				}
				rows = append(rows, []string{assetID, kind})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Asset ID", "Kind"}, rows, nil))
			return nil
		},
	}
}

func newAssetsShowCommand(ctx *commandContext) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show <asset-id>",
		Short: "Show an asset's title, call to action, and content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			asset, err := ctx.assets.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, asset)
			}
			rows := [][]string{
				{"ID", asset.ID},
				{"Kind", asset.Type},
				{"Title", asset.Title},
				{"CTA", fmt.Sprintf("%s (%s)", assets.CTALabel(asset.CTAType), asset.CTAURL)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			if full {
				fmt.Fprintln(cmd.OutOrStdout(), asset.HTML)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print the full HTML body as well")
	return cmd
}

func newAssetsEditCommand(ctx *commandContext) *cobra.Command {
	var title, html, ctaType, ctaURL string

	cmd := &cobra.Command{
		Use:   "edit <asset-id>",
		Short: "Edit an asset's title, content, or call to action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}

			// Load first so untouched fields survive the full-record save.
			asset, err := ctx.assets.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			changed := false
			if cmd.Flags().Changed("title") {
				asset.Title = title
				changed = true
			}
			if cmd.Flags().Changed("html") {
				asset.HTML = html
				changed = true
			}
			if cmd.Flags().Changed("cta-type") {
				asset.CTAType = ctaType
				changed = true
			}
			if cmd.Flags().Changed("cta-url") {
				asset.CTAURL = ctaURL
				changed = true
			}
			if !changed {
				return errors.New("nothing to change; pass --title, --html, --cta-type, or --cta-url")
			}

			if err := ctx.assets.Save(cmd.Context(), asset); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Asset %s saved\n", asset.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&html, "html", "", "Replacement HTML body")
	cmd.Flags().StringVar(&ctaType, "cta-type", "", "Call-to-action type")
	cmd.Flags().StringVar(&ctaURL, "cta-url", "", "Call-to-action URL")
	return cmd
}

func newAssetsExportCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <asset-id>",
		Short: "Print the download URL for a rendered copy of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			url, err := ctx.assets.ExportURL(args[0], assets.ExportFormat(format))
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"url": url})
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(assets.ExportPDF), "Export format (docx or pdf)")
	return cmd
}
