package token_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	sdktypes "github.com/blocto/solana-go-sdk/types"
	"github.com/tokenforge/tokenforge/business/core/token"
	"github.com/tokenforge/tokenforge/business/sys/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// fakeClient answers the cluster queries from memory and records the
// transactions it is asked to submit.
type fakeClient struct {
	balance   uint64
	blockhash string
	exists    map[string]bool
	allExist  bool
	submits   int
	submitErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		balance:   1_000_000_000,
		blockhash: sdktypes.NewAccount().PublicKey.ToBase58(),
		exists:    make(map[string]bool),
	}
}

func (f *fakeClient) Balance(ctx context.Context, address string) (uint64, error) {
	return f.balance, nil
}

func (f *fakeClient) LatestBlockhash(ctx context.Context) (string, error) {
	return f.blockhash, nil
}

func (f *fakeClient) MinimumRentBalance(ctx context.Context, size uint64) (uint64, error) {
	return 1_461_600, nil
}

func (f *fakeClient) AccountExists(ctx context.Context, address string) (bool, error) {
	return f.allExist || f.exists[address], nil
}

func (f *fakeClient) SubmitAndConfirm(ctx context.Context, tx sdktypes.Transaction) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submits++
	return "SIG", nil
}

func newTestCore(clt *fakeClient, minBalance uint64) *token.Core {
	return token.NewCore(token.Config{
		Client:          clt,
		FeePayer:        sdktypes.NewAccount(),
		MinPayerBalance: minBalance,
	})
}

func TestCreateMint(t *testing.T) {
	t.Log("Given the need to create and initialize token mints.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen creating a mint with an initial supply.", testID)
		{
			clt := newFakeClient()
			core := newTestCore(clt, 0)

			result, err := core.CreateMint(context.Background(), token.CreateMintParams{
				Decimals:      6,
				EnableFreeze:  true,
				InitialSupply: 1_000_000,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the mint: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to create the mint.", success, testID)

			if result.Mint == "" || result.Signature != "SIG" {
				t.Fatalf("\t%s\tTest %d:\tShould report the mint and signature: %+v", failed, testID, result)
			}
			t.Logf("\t%s\tTest %d:\tShould report the mint and signature.", success, testID)

			if clt.submits != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould submit one transaction: got %d", failed, testID, clt.submits)
			}
			t.Logf("\t%s\tTest %d:\tShould submit one transaction.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the decimals are out of range.", testID)
		{
			core := newTestCore(newFakeClient(), 0)

			_, err := core.CreateMint(context.Background(), token.CreateMintParams{Decimals: 12})
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest %d:\tShould reject more than nine decimals: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject more than nine decimals.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the fee payer cannot cover the fees.", testID)
		{
			clt := newFakeClient()
			clt.balance = 1_000
			core := newTestCore(clt, 10_000_000)

			_, err := core.CreateMint(context.Background(), token.CreateMintParams{Decimals: 6})
			if !errors.Is(err, token.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse to start the operation: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse to start the operation.", success, testID)

			if clt.submits != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not submit anything: got %d", failed, testID, clt.submits)
			}
			t.Logf("\t%s\tTest %d:\tShould not submit anything.", success, testID)
		}
	}
}

func TestMint(t *testing.T) {
	t.Log("Given the need to mint tokens to an owner.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the owner has no token account yet.", testID)
		{
			clt := newFakeClient()
			core := newTestCore(clt, 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()
			owner := sdktypes.NewAccount().PublicKey.ToBase58()

			result, err := core.Mint(context.Background(), token.MintParams{
				Mint:   mint,
				Owner:  owner,
				Amount: 500,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mint: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mint.", success, testID)

			if result.Signature != "SIG" {
				t.Fatalf("\t%s\tTest %d:\tShould report the signature: got %q", failed, testID, result.Signature)
			}
			t.Logf("\t%s\tTest %d:\tShould report the signature.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the amount is zero.", testID)
		{
			core := newTestCore(newFakeClient(), 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()
			owner := sdktypes.NewAccount().PublicKey.ToBase58()

			if _, err := core.Mint(context.Background(), token.MintParams{Mint: mint, Owner: owner}); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a zero amount.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a zero amount.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the mint address is not valid base58.", testID)
		{
			core := newTestCore(newFakeClient(), 0)

			owner := sdktypes.NewAccount().PublicKey.ToBase58()

			_, err := core.Mint(context.Background(), token.MintParams{Mint: "not-an-address", Owner: owner, Amount: 10})
			if !errors.Is(err, token.ErrInvalidAddress) {
				t.Fatalf("\t%s\tTest %d:\tShould reject the malformed address: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the malformed address.", success, testID)
		}
	}
}

func TestTransfer(t *testing.T) {
	t.Log("Given the need to transfer tokens between owners.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the fee payer has no source token account.", testID)
		{
			clt := newFakeClient()
			core := newTestCore(clt, 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()
			to := sdktypes.NewAccount().PublicKey.ToBase58()

			_, err := core.Transfer(context.Background(), token.TransferParams{Mint: mint, To: to, Amount: 10})
			if !errors.Is(err, token.ErrSourceAccountMissing) {
				t.Fatalf("\t%s\tTest %d:\tShould report the missing source account: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould report the missing source account.", success, testID)

			if clt.submits != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not submit anything: got %d", failed, testID, clt.submits)
			}
			t.Logf("\t%s\tTest %d:\tShould not submit anything.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the source token account exists.", testID)
		{
			clt := newFakeClient()
			core := newTestCore(clt, 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()
			to := sdktypes.NewAccount().PublicKey.ToBase58()

			// The fake reports every account as existing.
			clt.allExist = true

			result, err := core.Transfer(context.Background(), token.TransferParams{Mint: mint, To: to, Amount: 10})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to transfer: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to transfer.", success, testID)

			if result.Signature != "SIG" {
				t.Fatalf("\t%s\tTest %d:\tShould report the signature: got %q", failed, testID, result.Signature)
			}
			t.Logf("\t%s\tTest %d:\tShould report the signature.", success, testID)
		}
	}
}

func TestSetAuthority(t *testing.T) {
	t.Log("Given the need to change and revoke mint authorities.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen revoking the freeze authority.", testID)
		{
			clt := newFakeClient()
			core := newTestCore(clt, 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()

			result, err := core.SetAuthority(context.Background(), token.SetAuthorityParams{
				Mint:      mint,
				Authority: token.AuthorityFreeze,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to revoke: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to revoke.", success, testID)

			if result.Signature != "SIG" {
				t.Fatalf("\t%s\tTest %d:\tShould report the signature: got %q", failed, testID, result.Signature)
			}
			t.Logf("\t%s\tTest %d:\tShould report the signature.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the authority kind is unknown.", testID)
		{
			core := newTestCore(newFakeClient(), 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()

			_, err := core.SetAuthority(context.Background(), token.SetAuthorityParams{
				Mint:      mint,
				Authority: "owner",
			})
			if err == nil || !strings.Contains(err.Error(), "authority") {
				t.Fatalf("\t%s\tTest %d:\tShould reject the unknown authority kind: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject the unknown authority kind.", success, testID)
		}
	}
}
