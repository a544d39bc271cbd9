package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/credits"
	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/services/jobs"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "submit [video-url]",
		Short: "Submit a video by URL or upload for processing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}

			var jobID string
			var err error
			switch {
			case filePath != "" && len(args) > 0:
				return errors.New("pass a video URL or --file, not both")
			case filePath != "":
				jobID, err = submitUpload(cmd, ctx, filePath)
			case len(args) == 1:
				jobID, err = ctx.jobs.CreateFromURL(cmd.Context(), args[0])
			default:
				return errors.New("pass a video URL or --file")
			}
			if err != nil {
				return err
			}

			if err := ctx.store.RecordJob(cmd.Context(), ctx.cfg.Tenant, jobID); err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"job_id": jobID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s created; run 'leadmagnet generate' to produce assets\n", jobID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Upload a local video file instead of a URL")
	return cmd
}

func submitUpload(cmd *cobra.Command, ctx *commandContext, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer file.Close()
	return ctx.jobs.CreateFromUpload(cmd.Context(), filepath.Base(path), file)
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [job-id]",
		Short: "Generate the lead-magnet drafts for a job",
		Long: "Generate the fixed set of lead-magnet drafts for a job. Defaults to the\n" +
			"most recently submitted job. Costs one credit per draft; on an\n" +
			"insufficient-balance rejection the job stays valid, so top up and run\n" +
			"generate again without re-submitting the video.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}

			jobID := ""
			if len(args) == 1 {
				jobID = args[0]
			} else if held, ok := ctx.jobs.ActiveJob(); ok {
				jobID = held
			} else {
				return errors.New("no job submitted yet; run 'leadmagnet submit' first or pass a job id")
			}

			assetIDs, err := ctx.jobs.Generate(cmd.Context(), jobID)
			if err != nil {
				var credit *api.InsufficientCreditError
				if errors.As(err, &credit) {
					return describeCreditRejection(ctx, jobID, credit)
				}
				return err
			}

			if err := ctx.store.RecordAssets(cmd.Context(), ctx.cfg.Tenant, jobID, assetIDs); err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"job_id": jobID, "asset_ids": assetIDs})
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
			fmt.Fprintln(cmd.OutOrStdout(), "Edit with 'leadmagnet assets show <id>' and export with 'leadmagnet assets export <id>'")
			return nil
		},
	}
	return cmd
}

func describeCreditRejection(ctx *commandContext, jobID string, credit *api.InsufficientCreditError) error {
	msg := fmt.Sprintf("not enough credits to generate assets for job %s", jobID)
	if credit.RemediationURL != "" {
		msg += fmt.Sprintf("; top up at %s", credit.RemediationURL)
	} else {
		msg += "; top up with 'leadmagnet topup' or 'leadmagnet checkout'"
	}
	msg += " and run generate again with the same job"
	return errors.New(msg)
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active job, credits, and session at a glance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}

			balance, balanceKnown := ctx.credits.Balance()
			if !balanceKnown {
				if fetched, err := ctx.credits.Refresh(cmd.Context()); err == nil {
					balance, balanceKnown = fetched, true
				}
			}

			jobID, hasJob := ctx.jobs.ActiveJob()
			assetIDs, _ := ctx.jobs.AssetIDs()

			if ctx.jsonOutput() {
				out := map[string]any{
					"tenant": ctx.cfg.Tenant,
					"state":  string(ctx.jobs.State()),
				}
				if hasJob {
					out["job_id"] = jobID
				}
				if len(assetIDs) > 0 {
					out["asset_ids"] = assetIDs
				}
				if balanceKnown {
					out["balance"] = balance
				}
				return writeJSON(cmd, out)
			}

			rows := [][]string{
				{"Tenant", ctx.cfg.Tenant},
				{"Job state", string(ctx.jobs.State())},
			}
			if hasJob {
				rows = append(rows, []string{"Job", jobID})
			}
			if len(assetIDs) > 0 {
				rows = append(rows, []string{"Assets", fmt.Sprintf("%d generated", len(assetIDs))})
			}
			if balanceKnown {
				rows = append(rows, []string{"Credits", fmt.Sprintf("%d", balance)})
				if balance < credits.LowBalanceThreshold {
					rows = append(rows, []string{"", "balance is low; top up before generating"})
				}
			} else {
				rows = append(rows, []string{"Credits", "unknown"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}
