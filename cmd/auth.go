package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/invictusdhahri/moongate-mcp-server/internal/config"
	"github.com/invictusdhahri/moongate-mcp-server/internal/session"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect or clear the persisted session",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted session, if any",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the persisted session",
	RunE:  runAuthLogout,
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	store := session.NewStore(cfg.SessionDir)
	sess, err := store.Load()
	if err != nil {
		if errors.Is(err, session.ErrCorruptSession) {
			cmd.Printf("Session file %s is corrupt; run 'auth logout' to remove it.\n", store.Path())
			return nil
		}
		return err
	}
	if sess == nil {
		cmd.Println("No persisted session.")
		return nil
	}

	now := time.Now()
	cmd.Printf("Session file:   %s\n", store.Path())
	cmd.Printf("Wallet address: %s\n", sess.PublicKey)
	cmd.Printf("Provider:       %s\n", sess.AuthProvider)
	cmd.Printf("Created:        %s\n", sess.CreatedAt.Format(time.RFC3339))
	if sess.Expired(now) {
		cmd.Printf("Expired:        %s\n", sess.ExpiresAt.Format(time.RFC3339))
	} else {
		cmd.Printf("Expires:        %s (in %s)\n",
			sess.ExpiresAt.Format(time.RFC3339),
			sess.TimeUntilExpiry(now).Round(time.Second))
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	store := session.NewStore(cfg.SessionDir)
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	cmd.Println("Session cleared.")
	return nil
}
