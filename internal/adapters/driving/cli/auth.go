package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/arcana-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the signed-in account",
	Long: `Sign in and out of the Google account that stores your readings,
and check whether the stored session is still usable.

Sign-in opens your browser for the Google consent screen. The granted
tokens are kept locally; a stale token is renewed silently and the
session is never discarded on network failures.

Examples:
  arcana auth sign-in
  arcana auth status
  arcana auth sign-out`,
}

var authSignInCmd = &cobra.Command{
	Use:   "sign-in",
	Short: "Sign in with your Google account",
	RunE:  runAuthSignIn,
}

var authSignOutCmd = &cobra.Command{
	Use:   "sign-out",
	Short: "Sign out and clear the stored session",
	RunE:  runAuthSignOut,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the stored session and spreadsheet",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authSignInCmd)
	authCmd.AddCommand(authSignOutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSignIn(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	cmd.Println("Opening your browser for Google sign-in...")

	session, err := sessionService.SignIn(context.Background())
	if err != nil {
		if errors.Is(err, domain.ErrUserCancelled) {
			cmd.Println("Sign-in cancelled.")
			return nil
		}
		return fmt.Errorf("sign-in failed: %w", err)
	}

	cmd.Printf("Signed in as %s", session.Profile.Email)
	if session.Profile.Name != "" {
		cmd.Printf(" (%s)", session.Profile.Name)
	}
	cmd.Println()
	return nil
}

func runAuthSignOut(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	if sessionService.Session() == nil {
		cmd.Println("Not signed in.")
		return nil
	}

	if err := sessionService.SignOut(context.Background()); err != nil {
		return fmt.Errorf("sign-out failed: %w", err)
	}

	cmd.Println("Signed out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	status := sessionService.CheckAuthStatus(context.Background())
	if status.Valid {
		session := sessionService.Session()
		if session != nil && session.Profile.Email != "" {
			cmd.Printf("Signed in as %s\n", session.Profile.Email)
		} else {
			cmd.Println("Signed in.")
		}
		return nil
	}

	switch status.Reason {
	case domain.AuthStatusNotAuthenticated:
		cmd.Println("Not signed in. Run: arcana auth sign-in")
	case domain.AuthStatusTokenInvalid:
		cmd.Println("Session expired. Run: arcana auth sign-in")
	case domain.AuthStatusSpreadsheetNotFound:
		cmd.Println("Signed in, but the readings spreadsheet is missing.")
		cmd.Println("It will be recreated the next time a reading is saved.")
	default:
		cmd.Printf("Session unusable: %s\n", status.Reason)
	}
	return nil
}
