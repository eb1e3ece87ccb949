package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"

	"github.com/invictusdhahri/moongate-mcp-server/internal/wallet"
	"github.com/invictusdhahri/moongate-mcp-server/pkg/logging"
)

// toolError builds the structured error payload for a failed invocation.
// Dispatch never sees a Go error from a handler; failures stay inside the
// result so the protocol layer keeps running.
func toolError(tool string, err error) *mcp.CallToolResult {
	logging.Debug("Tools", "%s failed: %v", tool, err)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", tool, err))
}

func toolJSON(tool string, payload interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return toolError(tool, fmt.Errorf("failed to format response: %w", err))
	}
	return mcp.NewToolResultText(string(data))
}

// client resolves the current credential and builds an authenticated
// wallet client for one upstream call.
func (s *Server) client(ctx context.Context) (*wallet.Client, error) {
	token, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	return s.wallet.Client(token), nil
}

func (s *Server) handleGetWalletAddress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session.Current(ctx)
	if err != nil {
		return toolError("get_wallet_address", err), nil
	}

	address := sess.PublicKey
	if address == "" {
		// Not resolved at sign-in time; ask the upstream directly.
		address, err = s.wallet.Client(sess.Token).WalletAddress(ctx)
		if err != nil {
			return toolError("get_wallet_address", err), nil
		}
	}

	return toolJSON("get_wallet_address", map[string]string{
		"walletAddress": address,
	}), nil
}

func (s *Server) handleSignMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("sign_message: message argument is required"), nil
	}

	client, err := s.client(ctx)
	if err != nil {
		return toolError("sign_message", err), nil
	}

	result, err := client.SignMessage(ctx, message)
	if err != nil {
		return toolError("sign_message", err), nil
	}

	return toolJSON("sign_message", result), nil
}

func (s *Server) handleSignTransaction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	transaction, err := request.RequireString("transaction")
	if err != nil {
		return mcp.NewToolResultError("sign_transaction: transaction argument is required"), nil
	}

	client, err := s.client(ctx)
	if err != nil {
		return toolError("sign_transaction", err), nil
	}

	result, err := client.SignTransaction(ctx, transaction)
	if err != nil {
		return toolError("sign_transaction", err), nil
	}

	return toolJSON("sign_transaction", result), nil
}

func (s *Server) handleSendToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipient, err := request.RequireString("recipient")
	if err != nil {
		return mcp.NewToolResultError("send_token: recipient argument is required"), nil
	}
	amount, err := request.RequireString("amount")
	if err != nil {
		return mcp.NewToolResultError("send_token: amount argument is required"), nil
	}
	if err := validateAmount(amount); err != nil {
		return toolError("send_token", err), nil
	}

	req := wallet.SendTokenRequest{
		Recipient: recipient,
		Amount:    amount,
	}
	if tokenAddress, ok := request.GetArguments()["token_address"].(string); ok {
		req.TokenAddress = tokenAddress
	}

	client, err := s.client(ctx)
	if err != nil {
		return toolError("send_token", err), nil
	}

	result, err := client.SendToken(ctx, req)
	if err != nil {
		return toolError("send_token", err), nil
	}

	return toolJSON("send_token", result), nil
}

func (s *Server) handleGetPortfolio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	client, err := s.client(ctx)
	if err != nil {
		return toolError("get_portfolio", err), nil
	}

	portfolio, err := client.Portfolio(ctx)
	if err != nil {
		return toolError("get_portfolio", err), nil
	}

	return toolJSON("get_portfolio", portfolio), nil
}

func (s *Server) handleSearchTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("search_tokens: query argument is required"), nil
	}

	client, err := s.client(ctx)
	if err != nil {
		return toolError("search_tokens", err), nil
	}

	tokens, err := client.SearchTokens(ctx, query)
	if err != nil {
		return toolError("search_tokens", err), nil
	}

	return toolJSON("search_tokens", map[string]interface{}{
		"tokens": tokens,
	}), nil
}

func (s *Server) handleGetTokenInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := request.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError("get_token_info: address argument is required"), nil
	}

	client, err := s.client(ctx)
	if err != nil {
		return toolError("get_token_info", err), nil
	}

	info, err := client.TokenInfo(ctx, address)
	if err != nil {
		return toolError("get_token_info", err), nil
	}

	return toolJSON("get_token_info", map[string]interface{}{
		"token": info,
		"risk":  AssessTokenRisk(info),
	}), nil
}

func (s *Server) handleSwapTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fromToken, err := request.RequireString("from_token")
	if err != nil {
		return mcp.NewToolResultError("swap_tokens: from_token argument is required"), nil
	}
	toToken, err := request.RequireString("to_token")
	if err != nil {
		return mcp.NewToolResultError("swap_tokens: to_token argument is required"), nil
	}
	amount, err := request.RequireString("amount")
	if err != nil {
		return mcp.NewToolResultError("swap_tokens: amount argument is required"), nil
	}
	if err := validateAmount(amount); err != nil {
		return toolError("swap_tokens", err), nil
	}

	req := wallet.SwapRequest{
		FromToken: fromToken,
		ToToken:   toToken,
		Amount:    amount,
	}
	if slippage, ok := request.GetArguments()["slippage_bps"].(float64); ok {
		req.SlippageBps = int(slippage)
	}

	client, err := s.client(ctx)
	if err != nil {
		return toolError("swap_tokens", err), nil
	}

	result, err := client.Swap(ctx, req)
	if err != nil {
		return toolError("swap_tokens", err), nil
	}

	return toolJSON("swap_tokens", result), nil
}

// validateAmount rejects amounts the upstream would bounce anyway, before
// a credential refresh is spent on them.
func validateAmount(amount string) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if !value.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", value)
	}
	return nil
}
