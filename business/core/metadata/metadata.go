// Package metadata implements the Metaplex token metadata operations:
// creating and updating the on-chain metadata account of a mint. The
// metadata program and its account derivation are external, the SDK
// provides both.
package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/tokenforge/tokenforge/business/sys/validate"
)

// Client declares the cluster behavior the core depends on.
type Client interface {
	Balance(ctx context.Context, address string) (uint64, error)
	LatestBlockhash(ctx context.Context) (string, error)
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

// Core manages the set of API's for metadata operation access.
type Core struct {
	log             *zap.SugaredLogger
	client          Client
	payer           types.Account
	minPayerBalance uint64
	ev              func(v string, args ...any)
}

// NewCore constructs a core for metadata API access.
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

// Account returns the metadata account address derived for a mint.
func Account(mint string) (string, error) {
	pk, err := parseAddress(mint)
	if err != nil {
		return "", err
	}

	meta, err := token_metadata.GetTokenMetaPubkey(pk)
	if err != nil {
		return "", fmt.Errorf("derive metadata account: %w", err)
	}

	return meta.ToBase58(), nil
}

// Create creates the metadata account for a mint. The fee payer must
// hold the mint authority and becomes the update authority and the
// verified creator.
func (c *Core) Create(ctx context.Context, p CreateParams) (Result, error) {
	if err := validate.Check(p); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := checkBounds(p.Name, p.Symbol, p.URI); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := c.payerGuard(ctx); err != nil {
		return Result{}, err
	}

	mint, err := parseAddress(p.Mint)
	if err != nil {
		return Result{}, err
	}

	metaAccount, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return Result{}, fmt.Errorf("derive metadata account: %w", err)
	}

	payer := c.payer.PublicKey

	ix := token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
		Metadata:                metaAccount,
		Mint:                    mint,
		MintAuthority:           payer,
		UpdateAuthority:         payer,
		Payer:                   payer,
		UpdateAuthorityIsSigner: true,
		IsMutable:               !p.Immutable,
		Data: token_metadata.DataV2{
			Name:                 p.Name,
			Symbol:               p.Symbol,
			Uri:                  p.URI,
			SellerFeeBasisPoints: p.SellerFeeBasisPoints,
			Creators: &[]token_metadata.Creator{
				{
					Address:  payer,
					Verified: true,
					Share:    100,
				},
			},
		},
	})

	c.ev("metadata: create: mint %s name %q symbol %q", p.Mint, p.Name, p.Symbol)

	sig, err := c.submit(ctx, []types.Instruction{ix})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Metadata:  metaAccount.ToBase58(),
		Signature: sig,
	}, nil
}

// Update replaces the metadata of a mint and optionally hands the
// update authority to another key. The fee payer must hold the current
// update authority.
func (c *Core) Update(ctx context.Context, p UpdateParams) (Result, error) {
	if err := validate.Check(p); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := checkBounds(p.Name, p.Symbol, p.URI); err != nil {
		return Result{}, fmt.Errorf("validating params: %w", err)
	}

	if err := c.payerGuard(ctx); err != nil {
		return Result{}, err
	}

	mint, err := parseAddress(p.Mint)
	if err != nil {
		return Result{}, err
	}

	metaAccount, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		return Result{}, fmt.Errorf("derive metadata account: %w", err)
	}

	payer := c.payer.PublicKey

	var newAuth *common.PublicKey
	if strings.TrimSpace(p.NewUpdateAuthority) != "" {
		pk, err := parseAddress(p.NewUpdateAuthority)
		if err != nil {
			return Result{}, err
		}
		newAuth = &pk
	}

	ix := token_metadata.UpdateMetadataAccountV2(token_metadata.UpdateMetadataAccountV2Param{
		MetadataAccount:    metaAccount,
		UpdateAuthority:    payer,
		NewUpdateAuthority: newAuth,
		Data: &token_metadata.DataV2{
			Name:                 p.Name,
			Symbol:               p.Symbol,
			Uri:                  p.URI,
			SellerFeeBasisPoints: p.SellerFeeBasisPoints,
			Creators: &[]token_metadata.Creator{
				{
					Address:  payer,
					Verified: true,
					Share:    100,
				},
			},
		},
	})

	c.ev("metadata: update: mint %s name %q symbol %q", p.Mint, p.Name, p.Symbol)

	sig, err := c.submit(ctx, []types.Instruction{ix})
	if err != nil {
		return Result{}, err
	}

	return Result{
		Metadata:  metaAccount.ToBase58(),
		Signature: sig,
	}, nil
}

// payerGuard refuses to start an operation when the fee payer cannot
// cover fees per the configured minimum.
func (c *Core) payerGuard(ctx context.Context) error {
	if c.minPayerBalance == 0 {
		return nil
	}

	balance, err := c.client.Balance(ctx, c.payer.PublicKey.ToBase58())
	if err != nil {
		return fmt.Errorf("fee payer balance: %w", err)
	}

	if balance < c.minPayerBalance {
		return fmt.Errorf("fee payer balance below configured minimum: have %d lamports, want %d", balance, c.minPayerBalance)
	}

	return nil
}

// submit assembles, signs and submits one transaction carrying the
// specified instructions.
func (c *Core) submit(ctx context.Context, instructions []types.Instruction) (string, error) {
	blockhash, err := c.client.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("latest blockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: []types.Account{c.payer},
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
		return common.PublicKey{}, fmt.Errorf("invalid base58 address: %q", address)
	}

	return common.PublicKeyFromBytes(b), nil
}
