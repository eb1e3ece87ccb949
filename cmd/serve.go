package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/invictusdhahri/moongate-mcp-server/internal/config"
	"github.com/invictusdhahri/moongate-mcp-server/internal/oauth"
	"github.com/invictusdhahri/moongate-mcp-server/internal/session"
	"github.com/invictusdhahri/moongate-mcp-server/internal/tools"
	"github.com/invictusdhahri/moongate-mcp-server/internal/wallet"
	"github.com/invictusdhahri/moongate-mcp-server/pkg/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the MCP server. The session is established first (static token,
persisted session, or interactive browser sign-in, in that order); tool
dispatch begins only after the session exists.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	// stdout carries the MCP protocol; logs go to stderr.
	logging.Init(level, os.Stderr)

	manager, factory := buildSessionManager(cfg)

	ctx := cmd.Context()
	if err := manager.Initialize(ctx); err != nil {
		logging.Error("Bootstrap", err, "could not establish a session")
		return err
	}

	server := tools.NewServer(manager, factory, rootCmd.Version)
	logging.Info("Bootstrap", "MCP server ready on stdio")
	return server.Start(ctx)
}

// buildSessionManager wires the session manager to the wallet API, the
// session store, and the interactive sign-in flow.
func buildSessionManager(cfg *config.Config) (*session.Manager, *wallet.Factory) {
	factory := wallet.NewFactory(cfg.APIBaseURL)

	flow := oauth.NewFlow(oauth.FlowConfig{
		Port:      cfg.CallbackPort,
		SignInURL: cfg.SignInURL,
		Timeout:   cfg.LoginTimeout,
	})

	manager := session.NewManager(session.ManagerConfig{
		Store:            session.NewStore(cfg.SessionDir),
		Auth:             func(token string) session.AuthAPI { return factory.Client(token) },
		Flow:             flow,
		StaticToken:      cfg.StaticToken,
		SessionTTL:       cfg.SessionTTL,
		RefreshThreshold: cfg.RefreshThreshold,
	})

	return manager, factory
}
