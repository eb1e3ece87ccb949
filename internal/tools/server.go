package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/invictusdhahri/moongate-mcp-server/internal/session"
	"github.com/invictusdhahri/moongate-mcp-server/internal/wallet"
)

// SessionSource is the dispatch contract every tool handler consumes: the
// current bearer credential and the full session, both refreshed as
// needed. *session.Manager satisfies it.
type SessionSource interface {
	Token(ctx context.Context) (string, error)
	Current(ctx context.Context) (*session.Session, error)
}

// Server exposes the wallet operations as MCP tools for AI assistants.
type Server struct {
	session   SessionSource
	wallet    *wallet.Factory
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers all wallet tools.
// The session manager must be initialized before Start is called; no tool
// is dispatched before then.
func NewServer(sessions SessionSource, factory *wallet.Factory, version string) *Server {
	mcpServer := server.NewMCPServer(
		"moongate-wallet",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		session:   sessions,
		wallet:    factory,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

// Start serves the MCP protocol over stdio. Blocks until the client closes
// the connection.
func (s *Server) Start(ctx context.Context) error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	getWalletAddressTool := mcp.NewTool("get_wallet_address",
		mcp.WithDescription("Get the wallet address of the connected wallet"),
	)
	s.mcpServer.AddTool(getWalletAddressTool, s.handleGetWalletAddress)

	signMessageTool := mcp.NewTool("sign_message",
		mcp.WithDescription("Sign an arbitrary message with the connected wallet"),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Message text to sign"),
		),
	)
	s.mcpServer.AddTool(signMessageTool, s.handleSignMessage)

	signTransactionTool := mcp.NewTool("sign_transaction",
		mcp.WithDescription("Sign a serialized transaction with the connected wallet"),
		mcp.WithString("transaction",
			mcp.Required(),
			mcp.Description("Base64-encoded serialized transaction to sign"),
		),
	)
	s.mcpServer.AddTool(signTransactionTool, s.handleSignTransaction)

	sendTokenTool := mcp.NewTool("send_token",
		mcp.WithDescription("Send tokens from the connected wallet to another address"),
		mcp.WithString("recipient",
			mcp.Required(),
			mcp.Description("Recipient wallet address"),
		),
		mcp.WithString("amount",
			mcp.Required(),
			mcp.Description("Amount to send, as a decimal string"),
		),
		mcp.WithString("token_address",
			mcp.Description("Token address to send. Omit for the native token"),
		),
	)
	s.mcpServer.AddTool(sendTokenTool, s.handleSendToken)

	getPortfolioTool := mcp.NewTool("get_portfolio",
		mcp.WithDescription("Get the connected wallet's holdings and their current value"),
	)
	s.mcpServer.AddTool(getPortfolioTool, s.handleGetPortfolio)

	searchTokensTool := mcp.NewTool("search_tokens",
		mcp.WithDescription("Search tokens by symbol or name"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query (symbol or name)"),
		),
	)
	s.mcpServer.AddTool(searchTokensTool, s.handleSearchTokens)

	getTokenInfoTool := mcp.NewTool("get_token_info",
		mcp.WithDescription("Get detailed information about a token, including a heuristic risk assessment"),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("Token address to look up"),
		),
	)
	s.mcpServer.AddTool(getTokenInfoTool, s.handleGetTokenInfo)

	swapTokensTool := mcp.NewTool("swap_tokens",
		mcp.WithDescription("Swap one token for another through the DEX aggregator"),
		mcp.WithString("from_token",
			mcp.Required(),
			mcp.Description("Address of the token to swap from"),
		),
		mcp.WithString("to_token",
			mcp.Required(),
			mcp.Description("Address of the token to swap to"),
		),
		mcp.WithString("amount",
			mcp.Required(),
			mcp.Description("Amount of the from-token to swap, as a decimal string"),
		),
		mcp.WithNumber("slippage_bps",
			mcp.Description("Maximum slippage in basis points (default 50)"),
		),
	)
	s.mcpServer.AddTool(swapTokensTool, s.handleSwapTokens)
}
