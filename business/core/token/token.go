// Package token implements the SPL token operations the application can
// submit: creating mints, minting, transferring, burning, freezing and
// thawing accounts, and managing mint authorities. Instruction encoding
// and signing are delegated to the SDK, the core sequences the calls and
// enforces the application rules around them.
package token

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/tokenforge/tokenforge/business/sys/validate"
)

// Client declares the cluster behavior the core depends on.
type Client interface {
	Balance(ctx context.Context, address string) (uint64, error)
	LatestBlockhash(ctx context.Context) (string, error)
	MinimumRentBalance(ctx context.Context, size uint64) (uint64, error)
	AccountExists(ctx context.Context, address string) (bool, error)
	SubmitAndConfirm(ctx context.Context, tx types.Transaction) (string, error)
}

// Config represents the settings required to construct a core.
type Config struct {
	Log             *zap.SugaredLogger
	Client          Client
	FeePayer        types.Account
	MinPayerBalance uint64
	EvHandler       func(v string, args ...any)
}

// Core manages the set of API's for token operation access.
type Core struct {
	log             *zap.SugaredLogger
	client          Client
	payer           types.Account
	minPayerBalance uint64
	ev              func(v string, args ...any)
}

// NewCore constructs a core for token API access.
func NewCore(cfg Config) *Core {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	return &Core{
		log:             cfg.Log,
		client:          cfg.Client,
		payer:           cfg.FeePayer,
		minPayerBalance: cfg.MinPayerBalance,
		ev:              ev,
	}
}

// FeePayer returns the base58 address of the configured fee payer.
func (c *Core) FeePayer() string {
	return c.payer.PublicKey.ToBase58()
}

// CreateMint creates and initializes a new mint with the fee payer as
// mint authority, optionally with a freeze authority and an initial
// supply minted to the fee payer.
func (c *Core) CreateMint(ctx context.Context, p CreateMintParams) (CreateMintResult, error) {
	if err := validate.Check(p); err != nil {
		return CreateMintResult{}, fmt.Errorf("validating params: %w", err)
	}

	if err := c.payerGuard(ctx); err != nil {
		return CreateMintResult{}, err
	}

	mint := types.NewAccount()
	payer := c.payer.PublicKey

	rent, err := c.client.MinimumRentBalance(ctx, token.MintAccountSize)
	if err != nil {
		return CreateMintResult{}, fmt.Errorf("mint rent: %w", err)
	}

	var freezeAuth *common.PublicKey
	if p.EnableFreeze {
		freezeAuth = &payer
	}

	instructions := []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     payer,
			New:      mint.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: rent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   p.Decimals,
			Mint:       mint.PublicKey,
			MintAuth:   payer,
			FreezeAuth: freezeAuth,
		}),
	}

	if p.InitialSupply > 0 {
		ata, _, err := common.FindAssociatedTokenAddress(payer, mint.PublicKey)
		if err != nil {
			return CreateMintResult{}, fmt.Errorf("derive payer token account: %w", err)
		}

		instructions = append(instructions,
			associated_token_account.CreateAssociatedTokenAccount(associated_token_account.CreateAssociatedTokenAccountParam{
				Funder:                 payer,
				Owner:                  payer,
				Mint:                   mint.PublicKey,
				AssociatedTokenAccount: ata,
			}),
			token.MintTo(token.MintToParam{
				Mint:   mint.PublicKey,
				To:     ata,
				Auth:   payer,
				Amount: p.InitialSupply,
			}),
		)
	}

	c.ev("token: create mint: new mint %s decimals %d freeze %t supply %d", mint.PublicKey.ToBase58(), p.Decimals, p.EnableFreeze, p.InitialSupply)

	sig, err := c.submit(ctx, []types.Account{mint}, instructions)
	if err != nil {
		return CreateMintResult{}, err
	}

	return CreateMintResult{
		Mint:      mint.PublicKey.ToBase58(),
		Signature: sig,
	}, nil
}

// Mint mints tokens to the specified owner, creating the owner's
// associated token account when missing.
func (c *Core) Mint(ctx context.Context, p MintParams) (Result, error) {
	if err := validate.Check(p); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := c.payerGuard(ctx); err != nil {
		return Result{}, err
	}

	mint, err := parseAddress(p.Mint)
	if err != nil {
		return Result{}, err
	}
	owner, err := parseAddress(p.Owner)
	if err != nil {
		return Result{}, err
	}

	var instructions []types.Instruction

	ata, createIx, err := c.ensureTokenAccount(ctx, owner, mint)
	if err != nil {
		return Result{}, err
	}
	if createIx != nil {
		instructions = append(instructions, *createIx)
	}

	instructions = append(instructions, token.MintTo(token.MintToParam{
		Mint:   mint,
		To:     ata,
		Auth:   c.payer.PublicKey,
		Amount: p.Amount,
	}))

	c.ev("token: mint: %d base units of %s to %s", p.Amount, p.Mint, p.Owner)

	sig, err := c.submit(ctx, nil, instructions)
	if err != nil {
		return Result{}, err
	}

	return Result{Signature: sig}, nil
}

// Transfer moves tokens from the fee payer's associated token account to
// another owner, creating the destination account when missing.
func (c *Core) Transfer(ctx context.Context, p TransferParams) (Result, error) {
	if err := validate.Check(p); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := c.payerGuard(ctx); err != nil {
		return Result{}, err
	}

	mint, err := parseAddress(p.Mint)
	if err != nil {
		return Result{}, err
	}
	to, err := parseAddress(p.To)
	if err != nil {
		return Result{}, err
	}

	fromATA, _, err := common.FindAssociatedTokenAddress(c.payer.PublicKey, mint)
	if err != nil {
		return Result{}, fmt.Errorf("derive source token account: %w", err)
	}

	exists, err := c.client.AccountExists(ctx, fromATA.ToBase58())
	if err != nil {
		return Result{}, fmt.Errorf("check source token account: %w", err)
	}
	if !exists {
		return Result{}, fmt.Errorf("%w: %s", ErrSourceAccountMissing, fromATA.ToBase58())
	}

	var instructions []types.Instruction

	toATA, createIx, err := c.ensureTokenAccount(ctx, to, mint)
	if err != nil {
		return Result{}, err
	}
	if createIx != nil {
		instructions = append(instructions, *createIx)
	}

	instructions = append(instructions, token.Transfer(token.TransferParam{
		From:   fromATA,
		To:     toATA,
		Auth:   c.payer.PublicKey,
		Amount: p.Amount,
	}))

	c.ev("token: transfer: %d base units of %s to %s", p.Amount, p.Mint, p.To)

	sig, err := c.submit(ctx, nil, instructions)
	if err != nil {
		return Result{}, err
	}

	return Result{Signature: sig}, nil
}

// Burn destroys tokens from the fee payer's associated token account.
func (c *Core) Burn(ctx context.Context, p BurnParams) (Result, error) {
	if err := validate.Check(p); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := c.payerGuard(ctx); err != nil {
		return Result{}, err
	}

	mint, err := parseAddress(p.Mint)
	if err != nil {
		return Result{}, err
	}

	ata, _, err := common.FindAssociatedTokenAddress(c.payer.PublicKey, mint)
	if err != nil {
		return Result{}, fmt.Errorf("derive token account: %w", err)
	}

	exists, err := c.client.AccountExists(ctx, ata.ToBase58())
	if err != nil {
		return Result{}, fmt.Errorf("check token account: %w", err)
	}
	if !exists {
		return Result{}, fmt.Errorf("%w: %s", ErrSourceAccountMissing, ata.ToBase58())
	}

	instructions := []types.Instruction{
		token.Burn(token.BurnParam{
			Account: ata,
			Mint:    mint,
			Auth:    c.payer.PublicKey,
			Amount:  p.Amount,
		}),
	}

	c.ev("token: burn: %d base units of %s", p.Amount, p.Mint)

	sig, err := c.submit(ctx, nil, instructions)
	if err != nil {
		return Result{}, err
	}

	return Result{Signature: sig}, nil
}

// Freeze freezes the owner's associated token account for the mint. The
// fee payer must hold the mint's freeze authority.
func (c *Core) Freeze(ctx context.Context, p FreezeParams) (Result, error) {
	return c.freezeThaw(ctx, p, true)
}

// Thaw thaws the owner's associated token account for the mint. The fee
// payer must hold the mint's freeze authority.
func (c *Core) Thaw(ctx context.Context, p FreezeParams) (Result, error) {
	return c.freezeThaw(ctx, p, false)
}

func (c *Core) freezeThaw(ctx context.Context, p FreezeParams, freeze bool) (Result, error) {
	if err := validate.Check(p); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := c.payerGuard(ctx); err != nil {
		return Result{}, err
	}

	mint, err := parseAddress(p.Mint)
	if err != nil {
		return Result{}, err
	}
	owner, err := parseAddress(p.Owner)
	if err != nil {
		return Result{}, err
	}

	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return Result{}, fmt.Errorf("derive token account: %w", err)
	}

	var ix types.Instruction
	op := "thaw"
	if freeze {
		op = "freeze"
		ix = token.FreezeAccount(token.FreezeAccountParam{
			Account: ata,
			Mint:    mint,
			Auth:    c.payer.PublicKey,
		})
	} else {
		ix = token.ThawAccount(token.ThawAccountParam{
			Account: ata,
			Mint:    mint,
			Auth:    c.payer.PublicKey,
		})
	}

	c.ev("token: %s: account %s mint %s", op, ata.ToBase58(), p.Mint)

	sig, err := c.submit(ctx, nil, []types.Instruction{ix})
	if err != nil {
		return Result{}, err
	}

	return Result{Signature: sig}, nil
}

// SetAuthority changes or revokes the mint or freeze authority on a
// mint. The fee payer must hold the current authority.
func (c *Core) SetAuthority(ctx context.Context, p SetAuthorityParams) (Result, error) {
	if err := validate.Check(p); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := c.payerGuard(ctx); err != nil {
		return Result{}, err
	}

	mint, err := parseAddress(p.Mint)
	if err != nil {
		return Result{}, err
	}

	var authType token.AuthorityType
	switch p.Authority {
	case AuthorityMint:
		authType = token.AuthorityTypeMintTokens
	case AuthorityFreeze:
		authType = token.AuthorityTypeFreezeAccount
	}

	// nil means the authority is revoked for good.
	var newAuth *common.PublicKey
	if strings.TrimSpace(p.NewAuthority) != "" {
		pk, err := parseAddress(p.NewAuthority)
		if err != nil {
			return Result{}, err
		}
		newAuth = &pk
	}

	instructions := []types.Instruction{
		token.SetAuthority(token.SetAuthorityParam{
			Account:  mint,
			NewAuth:  newAuth,
			AuthType: authType,
			Auth:     c.payer.PublicKey,
		}),
	}

	if newAuth != nil {
		c.ev("token: set authority: %s authority of %s to %s", p.Authority, p.Mint, p.NewAuthority)
	} else {
		c.ev("token: set authority: revoking %s authority of %s", p.Authority, p.Mint)
	}

	sig, err := c.submit(ctx, nil, instructions)
	if err != nil {
		return Result{}, err
	}

	return Result{Signature: sig}, nil
}

// CloseAccount closes an empty token account owned by the fee payer and
// reclaims its rent.
func (c *Core) CloseAccount(ctx context.Context, p CloseAccountParams) (Result, error) {
	if err := validate.Check(p); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := c.payerGuard(ctx); err != nil {
		return Result{}, err
	}

	account, err := parseAddress(p.Account)
	if err != nil {
		return Result{}, err
	}

	instructions := []types.Instruction{
		token.CloseAccount(token.CloseAccountParam{
			Account: account,
			Auth:    c.payer.PublicKey,
			To:      c.payer.PublicKey,
		}),
	}

	c.ev("token: close account: %s", p.Account)

	sig, err := c.submit(ctx, nil, instructions)
	if err != nil {
		return Result{}, err
	}

	return Result{Signature: sig}, nil
}

// =============================================================================

// payerGuard refuses to start an operation when the fee payer cannot
// cover fees and rent per the configured minimum.
func (c *Core) payerGuard(ctx context.Context) error {
	if c.minPayerBalance == 0 {
		return nil
	}

	balance, err := c.client.Balance(ctx, c.payer.PublicKey.ToBase58())
	if err != nil {
		return fmt.Errorf("fee payer balance: %w", err)
	}

	if balance < c.minPayerBalance {
		return fmt.Errorf("%w: have %d lamports, want %d", ErrInsufficientFunds, balance, c.minPayerBalance)
	}

	return nil
}

// ensureTokenAccount derives the owner's associated token account for
// the mint and produces a create instruction when it is not on chain.
func (c *Core) ensureTokenAccount(ctx context.Context, owner common.PublicKey, mint common.PublicKey) (common.PublicKey, *types.Instruction, error) {
	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return common.PublicKey{}, nil, fmt.Errorf("derive token account: %w", err)
	}

	exists, err := c.client.AccountExists(ctx, ata.ToBase58())
	if err != nil {
		return common.PublicKey{}, nil, fmt.Errorf("check token account: %w", err)
	}
	if exists {
		return ata, nil, nil
	}

	ix := associated_token_account.CreateAssociatedTokenAccount(associated_token_account.CreateAssociatedTokenAccountParam{
		Funder:                 c.payer.PublicKey,
		Owner:                  owner,
		Mint:                   mint,
		AssociatedTokenAccount: ata,
	})

	return ata, &ix, nil
}

// submit assembles, signs and submits one transaction carrying the
// specified instructions, with the fee payer always signing first.
func (c *Core) submit(ctx context.Context, extraSigners []types.Account, instructions []types.Instruction) (string, error) {
	blockhash, err := c.client.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("latest blockhash: %w", err)
	}

	signers := append([]types.Account{c.payer}, extraSigners...)

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: signers,
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        c.payer.PublicKey,
			RecentBlockhash: blockhash,
			Instructions:    instructions,
		}),
	})
	if err != nil {
		return "", fmt.Errorf("new transaction: %w", err)
	}

	return c.client.SubmitAndConfirm(ctx, tx)
}

// parseAddress decodes and checks a base58 account address.
func parseAddress(address string) (common.PublicKey, error) {
	b, err := base58.Decode(strings.TrimSpace(address))
	if err != nil || len(b) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	return common.PublicKeyFromBytes(b), nil
}
