package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultHTTPTimeout is the fixed timeout for upstream wallet API requests.
const DefaultHTTPTimeout = 30 * time.Second

// APIError is a non-2xx response from the wallet API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("wallet API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("wallet API error (status %d)", e.StatusCode)
}

// IsUnauthorized reports whether the error is a 401/403 rejection from the
// wallet API.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	if !ok {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// Factory builds wallet API clients bound to a single base URL. It is
// stateless and safe for concurrent use.
type Factory struct {
	baseURL    string
	httpClient *http.Client
}

// FactoryOption configures the factory.
type FactoryOption func(*Factory)

// WithHTTPClient sets a custom HTTP client. Used by tests to point the
// factory at a stub server without the default timeout.
func WithHTTPClient(httpClient *http.Client) FactoryOption {
	return func(f *Factory) {
		f.httpClient = httpClient
	}
}

// NewFactory creates a factory bound to the given API base URL.
func NewFactory(baseURL string, opts ...FactoryOption) *Factory {
	f := &Factory{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Client builds a client carrying the given bearer credential. An empty
// token produces an unauthenticated client.
func (f *Factory) Client(token string) *Client {
	return &Client{
		baseURL:    f.baseURL,
		httpClient: f.httpClient,
		token:      token,
	}
}

// Client issues requests against the wallet API. Clients are cheap to build
// and hold no state beyond the credential they were created with.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// AuthCheck validates the client's credential and returns a fresh token,
// along with the wallet address and user id when the upstream resolves them.
func (c *Client) AuthCheck(ctx context.Context) (*AuthCheckResult, error) {
	var result AuthCheckResult
	if err := c.get(ctx, "/auth-check", nil, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, fmt.Errorf("auth-check response carried no token")
	}
	return &result, nil
}

// WalletAddress resolves the wallet address bound to the client's credential.
func (c *Client) WalletAddress(ctx context.Context) (string, error) {
	var result struct {
		WalletAddress string `json:"walletAddress"`
	}
	if err := c.get(ctx, "/wallet-address", nil, &result); err != nil {
		return "", err
	}
	return result.WalletAddress, nil
}

// SignMessage asks the upstream wallet to sign an arbitrary message.
func (c *Client) SignMessage(ctx context.Context, message string) (*SignMessageResult, error) {
	body := map[string]string{"message": message}
	var result SignMessageResult
	if err := c.post(ctx, "/sign-message", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SignTransaction asks the upstream wallet to sign a serialized transaction.
func (c *Client) SignTransaction(ctx context.Context, transaction string) (*SignTransactionResult, error) {
	body := map[string]string{"transaction": transaction}
	var result SignTransactionResult
	if err := c.post(ctx, "/sign-transaction", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendToken submits a token transfer.
func (c *Client) SendToken(ctx context.Context, req SendTokenRequest) (*SendTokenResult, error) {
	var result SendTokenResult
	if err := c.post(ctx, "/send-token", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Portfolio fetches the wallet's holdings.
func (c *Client) Portfolio(ctx context.Context) (*Portfolio, error) {
	var result Portfolio
	if err := c.get(ctx, "/portfolio", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchTokens searches tokens by symbol or name.
func (c *Client) SearchTokens(ctx context.Context, query string) ([]Token, error) {
	params := url.Values{}
	params.Set("q", query)

	var result struct {
		Tokens []Token `json:"tokens"`
	}
	if err := c.get(ctx, "/token-search", params, &result); err != nil {
		return nil, err
	}
	return result.Tokens, nil
}

// TokenInfo fetches detailed information for a single token.
func (c *Client) TokenInfo(ctx context.Context, address string) (*TokenInfo, error) {
	params := url.Values{}
	params.Set("address", address)

	var result TokenInfo
	if err := c.get(ctx, "/token-info", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Swap submits a swap through the upstream DEX aggregator.
func (c *Client) Swap(ctx context.Context, req SwapRequest) (*SwapResult, error) {
	var result SwapResult
	if err := c.post(ctx, "/swap", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wallet API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read wallet API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    parseErrorMessage(respBody),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode wallet API response: %w", err)
	}

	return nil
}

// parseErrorMessage extracts the error field from an upstream error body.
// Bodies that are not JSON objects are returned trimmed as-is.
func parseErrorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}
