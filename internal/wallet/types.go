package wallet

// AuthCheckResult is the response of the auth-check endpoint. The upstream
// always returns a fresh token; wallet address and user id are filled in
// when the upstream can resolve them from the credential.
type AuthCheckResult struct {
	Token         string `json:"token"`
	WalletAddress string `json:"walletAddress,omitempty"`
	UserID        string `json:"userId,omitempty"`
}

// SignMessageResult carries the upstream signature for a signed message.
type SignMessageResult struct {
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

// SignTransactionResult carries the signed transaction returned upstream.
type SignTransactionResult struct {
	SignedTransaction string `json:"signedTransaction"`
	Signature         string `json:"signature,omitempty"`
}

// SendTokenRequest describes a token transfer.
type SendTokenRequest struct {
	Recipient    string `json:"recipient"`
	Amount       string `json:"amount"`
	TokenAddress string `json:"tokenAddress,omitempty"`
}

// SendTokenResult is the upstream acknowledgement of a transfer.
type SendTokenResult struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// PortfolioHolding is a single position in the wallet's portfolio.
type PortfolioHolding struct {
	TokenAddress string `json:"tokenAddress"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	ValueUSD     string `json:"valueUsd"`
}

// Portfolio is the wallet's full holdings snapshot.
type Portfolio struct {
	WalletAddress string             `json:"walletAddress"`
	TotalValueUSD string             `json:"totalValueUsd"`
	Holdings      []PortfolioHolding `json:"holdings"`
}

// Token is a search result entry from the token-search endpoint.
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	PriceUSD string `json:"priceUsd,omitempty"`
}

// TokenInfo is the detailed token view used by the token-info tool. The
// risk-relevant fields feed the heuristic scoring in the tools package.
type TokenInfo struct {
	Address          string  `json:"address"`
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Decimals         int     `json:"decimals"`
	PriceUSD         string  `json:"priceUsd,omitempty"`
	MarketCapUSD     string  `json:"marketCapUsd,omitempty"`
	LiquidityUSD     string  `json:"liquidityUsd,omitempty"`
	Volume24hUSD     string  `json:"volume24hUsd,omitempty"`
	HolderCount      int     `json:"holderCount,omitempty"`
	TopHolderPercent float64 `json:"topHolderPercent,omitempty"`
	MintAuthority    bool    `json:"mintAuthority"`
	FreezeAuthority  bool    `json:"freezeAuthority"`
	CreatedAt        string  `json:"createdAt,omitempty"`
	AgeDays          int     `json:"ageDays,omitempty"`
	Verified         bool    `json:"verified"`
}

// SwapRequest describes a swap routed through the upstream DEX aggregator.
type SwapRequest struct {
	FromToken   string `json:"fromToken"`
	ToToken     string `json:"toToken"`
	Amount      string `json:"amount"`
	SlippageBps int    `json:"slippageBps,omitempty"`
}

// SwapResult is the upstream acknowledgement of a swap.
type SwapResult struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	InAmount      string `json:"inAmount,omitempty"`
	OutAmount     string `json:"outAmount,omitempty"`
}
