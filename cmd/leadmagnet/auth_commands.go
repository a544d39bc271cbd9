package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FasTrackBusiness/video-to-lead-magnets/internal/api"
)

func newAuthCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newSignupCommand(ctx),
		newLoginCommand(ctx),
		newLogoutCommand(ctx),
		newWhoamiCommand(ctx),
		newVerifyEmailCommand(ctx),
		newConfirmEmailCommand(ctx),
		newForgotPasswordCommand(ctx),
		newResetPasswordCommand(ctx),
	}
}

func newSignupCommand(ctx *commandContext) *cobra.Command {
	var email, password, role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account in the active tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			creds, err := ctx.session.Signup(cmd.Context(), email, password, role)
			if err != nil {
				return describeAuthError(err)
			}
			if err := ctx.persistSession(cmd.Context(), creds); err != nil {
				return err
			}
			return reportLogin(cmd, ctx, creds.Email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&role, "role", "user", "Account role (user or admin)")
	return cmd
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the active tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			creds, err := ctx.session.Login(cmd.Context(), email, password)
			if err != nil {
				return describeAuthError(err)
			}
			if err := ctx.persistSession(cmd.Context(), creds); err != nil {
				return err
			}
			return reportLogin(cmd, ctx, creds.Email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func reportLogin(cmd *cobra.Command, ctx *commandContext, email string) error {
	verification := ctx.session.Verification().String()
	if ctx.jsonOutput() {
		return writeJSON(cmd, map[string]string{
			"tenant":       ctx.cfg.Tenant,
			"email":        email,
			"verification": verification,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s (email %s)\n",
		ctx.cfg.Tenant, email, verification)
	return nil
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved session for the active tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx.session.Logout()
			if err := ctx.store.DeleteSession(cmd.Context(), ctx.cfg.Tenant); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", ctx.cfg.Tenant)
			return nil
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active tenant and session",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot := ctx.api.Tenant().Snapshot()
			verification := ctx.session.Verification()
			if snapshot.Authenticated() {
				verification = ctx.session.RefreshVerification(cmd.Context())
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"tenant":        snapshot.TenantID,
					"authenticated": snapshot.Authenticated(),
					"email":         ctx.session.Email(),
					"role":          ctx.session.Role(),
					"verification":  verification.String(),
				})
			}

			rows := [][]string{
				{"Tenant", snapshot.TenantID},
				{"Authenticated", yesNo(snapshot.Authenticated())},
			}
			if snapshot.Authenticated() {
				rows = append(rows,
					[]string{"Email", ctx.session.Email()},
					[]string{"Role", ctx.session.Role()},
					[]string{"Email verification", verification.String()},
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

func newVerifyEmailCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-email",
		Short: "Send a verification email for the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.requireAuth(); err != nil {
				return err
			}
			if err := ctx.session.RequestVerificationEmail(cmd.Context()); err != nil {
				return describeAuthError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Verification email sent; check your inbox")
			return nil
		},
	}
}

func newConfirmEmailCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm-email <token>",
		Short: "Confirm an email address with the token from the email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.session.ConfirmEmail(cmd.Context(), args[0]); err != nil {
				return describeAuthError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Email confirmed")
			return nil
		},
	}
}

func newForgotPasswordCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Send a password-reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.session.RequestPasswordReset(cmd.Context(), args[0]); err != nil {
				return describeAuthError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password-reset email sent; check your inbox")
			return nil
		},
	}
}

func newResetPasswordCommand(ctx *commandContext) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password with the token from the reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			if err := ctx.session.ResetPassword(cmd.Context(), args[0], password); err != nil {
				return describeAuthError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated; log in with the new password")
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "New password")
	return cmd
}

// describeAuthError turns the typed auth failures into actionable CLI
// messages; anything else passes through untouched.
func describeAuthError(err error) error {
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		return fmt.Errorf("authentication failed: %s", authErr.Message)
	}
	var mismatch *api.TenantMismatchError
	if errors.As(err, &mismatch) {
		return fmt.Errorf("this account does not belong to tenant %s (switch tenants with --tenant)", mismatch.TenantID)
	}
	return err
}
