// Package solana provides the RPC client support needed to submit and
// confirm transactions against a Solana cluster. The heavy lifting of
// signing and serialization is delegated to the SDK, this package wraps
// it with endpoint resolution, parsed queries, retry on submit, and
// signature confirmation.
package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/google/uuid"
)

// TokenProgramID is the address of the SPL token program.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// Set of supported network names.
const (
	NetworkMainnet  = "mainnet-beta"
	NetworkDevnet   = "devnet"
	NetworkTestnet  = "testnet"
	NetworkLocalnet = "localnet"
)

// EventHandler defines a function for receiving progress notifications
// while transactions are submitted and confirmed.
type EventHandler func(v string, args ...any)

// Config represents the settings required to construct a client.
type Config struct {
	RPCURL         string
	WSURL          string
	Commitment     string
	MaxRetries     int
	RetryBase      time.Duration
	RetryMax       time.Duration
	ConfirmTimeout time.Duration
	EvHandler      EventHandler
}

// Client wraps the SDK RPC client with the behavior the operation cores
// depend on.
type Client struct {
	rpc  *client.Client
	http *http.Client
	cfg  Config
	ev   EventHandler
}

// New constructs a client for the specified configuration, applying
// defaults for anything unset.
func New(cfg Config) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	if cfg.WSURL == "" {
		cfg.WSURL = WebsocketEndpoint(cfg.RPCURL)
	}
	if cfg.Commitment == "" {
		cfg.Commitment = "finalized"
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 5
	}
	if cfg.RetryBase == 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.RetryMax == 0 {
		cfg.RetryMax = 8 * time.Second
	}
	if cfg.ConfirmTimeout == 0 {
		cfg.ConfirmTimeout = 60 * time.Second
	}

	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	return &Client{
		rpc:  client.NewClient(cfg.RPCURL),
		http: &http.Client{Timeout: 20 * time.Second},
		cfg:  cfg,
		ev:   ev,
	}, nil
}

// Endpoint maps a network name to the public RPC endpoint for that
// network.
func Endpoint(network string) (string, error) {
	switch network {
	case NetworkMainnet:
		return rpc.MainnetRPCEndpoint, nil
	case NetworkDevnet:
		return rpc.DevnetRPCEndpoint, nil
	case NetworkTestnet:
		return rpc.TestnetRPCEndpoint, nil
	case NetworkLocalnet:
		return rpc.LocalnetRPCEndpoint, nil
	}

	return "", fmt.Errorf("unknown network %q: expecting %s, %s, %s or %s", network, NetworkMainnet, NetworkDevnet, NetworkTestnet, NetworkLocalnet)
}

// WebsocketEndpoint derives the websocket endpoint for an RPC endpoint.
// Solana clusters serve the pubsub API on the same host over ws/wss.
func WebsocketEndpoint(rpcURL string) string {
	switch {
	case strings.HasPrefix(rpcURL, "https://"):
		return "wss://" + strings.TrimPrefix(rpcURL, "https://")
	case strings.HasPrefix(rpcURL, "http://"):
		return "ws://" + strings.TrimPrefix(rpcURL, "http://")
	}

	return rpcURL
}

// Commitment returns the configured commitment level.
func (c *Client) Commitment() string {
	return c.cfg.Commitment
}

// Balance returns the lamport balance for the specified address.
func (c *Client) Balance(ctx context.Context, address string) (uint64, error) {
	balance, err := c.rpc.GetBalance(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// LatestBlockhash returns a recent blockhash for transaction assembly.
func (c *Client) LatestBlockhash(ctx context.Context) (string, error) {
	latest, err := c.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	return latest.Blockhash, nil
}

// MinimumRentBalance returns the lamports needed to make an account of
// the specified size rent exempt.
func (c *Client) MinimumRentBalance(ctx context.Context, size uint64) (uint64, error) {
	rent, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		return 0, fmt.Errorf("get minimum balance for rent exemption: %w", err)
	}

	return rent, nil
}

// RequestAirdrop asks the cluster faucet to credit the address. Only the
// dev and test networks honor this call.
func (c *Client) RequestAirdrop(ctx context.Context, address string, lamports uint64) (string, error) {
	sig, err := c.rpc.RequestAirdrop(ctx, address, lamports)
	if err != nil {
		return "", fmt.Errorf("request airdrop: %w", err)
	}

	return sig, nil
}

// AccountExists reports whether an account is present on chain.
func (c *Client) AccountExists(ctx context.Context, address string) (bool, error) {
	info, err := c.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "not found") ||
			strings.Contains(msg, "could not find account") ||
			strings.Contains(msg, "account does not exist") {
			return false, nil
		}
		return false, fmt.Errorf("get account info: %w", err)
	}

	// A missing account comes back as a zero value rather than an error.
	if info.Owner.ToBase58() == "11111111111111111111111111111111" && info.Lamports == 0 && len(info.Data) == 0 {
		return false, nil
	}

	return true, nil
}

// send submits one signed transaction without retry. Submit in submit.go
// layers the retry policy on top.
func (c *Client) send(ctx context.Context, tx types.Transaction) (string, error) {
	return c.rpc.SendTransaction(ctx, tx)
}

// =============================================================================
// Raw JSON-RPC support. A few queries want response shapes the SDK does not
// surface (jsonParsed token accounts, signature statuses), so these go over
// a plain HTTP JSON-RPC call in the same way the cluster documents them.

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// call performs a raw JSON-RPC request against the configured endpoint.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.RPCURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http status %d", resp.StatusCode)
	}

	var rr rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if rr.Error != nil {
		return fmt.Errorf("rpc error code=%d message=%s", rr.Error.Code, rr.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}

// TokenAccount represents one parsed SPL token account held by an owner.
type TokenAccount struct {
	Address  string
	Mint     string
	Owner    string
	Amount   string
	Decimals int
	State    string
}

// tokenAccountsResult is the decoded result object for
// getTokenAccountsByOwner with jsonParsed encoding.
type tokenAccountsResult struct {
	Value []struct {
		Pubkey  string `json:"pubkey"`
		Account struct {
			Data struct {
				Parsed struct {
					Info struct {
						Mint        string `json:"mint"`
						Owner       string `json:"owner"`
						State       string `json:"state"`
						TokenAmount struct {
							Amount   string `json:"amount"`
							Decimals int    `json:"decimals"`
						} `json:"tokenAmount"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"account"`
	} `json:"value"`
}

// TokenAccountsByOwner returns the parsed SPL token accounts held by the
// specified owner.
func (c *Client) TokenAccountsByOwner(ctx context.Context, owner string) ([]TokenAccount, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, fmt.Errorf("owner is empty")
	}

	params := []any{
		owner,
		map[string]any{"programId": TokenProgramID},
		map[string]any{
			"commitment": c.cfg.Commitment,
			"encoding":   "jsonParsed",
		},
	}

	var result tokenAccountsResult
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, fmt.Errorf("get token accounts by owner: %w", err)
	}

	accounts := make([]TokenAccount, len(result.Value))
	for i, v := range result.Value {
		info := v.Account.Data.Parsed.Info
		accounts[i] = TokenAccount{
			Address:  v.Pubkey,
			Mint:     info.Mint,
			Owner:    info.Owner,
			Amount:   info.TokenAmount.Amount,
			Decimals: info.TokenAmount.Decimals,
			State:    info.State,
		}
	}

	return accounts, nil
}

// signatureStatusResult is the decoded result object for
// getSignatureStatuses.
type signatureStatusResult struct {
	Value []*struct {
		ConfirmationStatus string `json:"confirmationStatus"`
		Err                any    `json:"err"`
	} `json:"value"`
}

// SignatureStatus reports whether the signature has reached the
// configured commitment and whether it failed on chain. A signature the
// cluster does not know yet reports not done.
func (c *Client) SignatureStatus(ctx context.Context, signature string) (done bool, err error) {
	params := []any{
		[]string{signature},
		map[string]any{"searchTransactionHistory": true},
	}

	var result signatureStatusResult
	if err := c.call(ctx, "getSignatureStatuses", params, &result); err != nil {
		return false, fmt.Errorf("get signature statuses: %w", err)
	}

	if len(result.Value) == 0 || result.Value[0] == nil {
		return false, nil
	}

	status := result.Value[0]
	if status.Err != nil {
		return true, fmt.Errorf("transaction failed on chain: %v", status.Err)
	}

	switch status.ConfirmationStatus {
	case "finalized":
		return true, nil
	case "confirmed":
		return c.cfg.Commitment != "finalized", nil
	}

	return false, nil
}

// Lamports per SOL for display conversions.
const LamportsPerSOL = 1_000_000_000

// FormatSOL renders a lamport amount as a SOL string.
func FormatSOL(lamports uint64) string {
	return fmt.Sprintf("%d.%09d", lamports/LamportsPerSOL, lamports%LamportsPerSOL)
}
