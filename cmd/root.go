package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/invictusdhahri/moongate-mcp-server/internal/oauth"
	"github.com/invictusdhahri/moongate-mcp-server/internal/session"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error.
	ExitCodeError = 1
	// ExitCodeAuthFailed indicates credential acquisition failed.
	ExitCodeAuthFailed = 3
)

// rootCmd is the entry point when the binary is called without subcommands.
// Running it starts the MCP server on stdio, same as `moongate-mcp-server serve`.
var rootCmd = &cobra.Command{
	Use:   "moongate-mcp-server",
	Short: "MCP server for the Moongate wallet",
	Long: `moongate-mcp-server exposes Moongate wallet operations (signing,
transfers, portfolio, token search, swaps) as MCP tools over stdio,
so AI assistants can drive a wallet through the standard MCP protocol.`,
	// SilenceUsage prevents Cobra from printing usage on errors the
	// application already reports.
	SilenceUsage: true,
}

func init() {
	// Assigned here rather than in the literal: runServe reads
	// rootCmd.Version, which would otherwise be an initialization cycle.
	rootCmd.RunE = runServe
}

// SetVersion sets the version for the root command. Called from main with
// the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the CLI and exits with a semantic exit code.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "moongate-mcp-server version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode maps error types to exit codes for scripting.
func getExitCode(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidManualToken),
		errors.Is(err, session.ErrNotAuthenticated),
		errors.Is(err, oauth.ErrLoginTimeout),
		errors.Is(err, oauth.ErrCallbackIncomplete):
		return ExitCodeAuthFailed
	default:
		return ExitCodeError
	}
}
