package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/metadata"
	"github.com/tokenforge/tokenforge/business/core/token"
	"github.com/tokenforge/tokenforge/foundation/solana"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Run the interactive operations menu",
	RunE:  menuRun,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func menuRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	in := bufio.NewReader(os.Stdin)

	fmt.Println("network   :", rt.cfg.Network.Name)
	fmt.Println("fee payer :", rt.payer.PublicKey.ToBase58())

	for {
		fmt.Println()
		fmt.Println("1. show balance")
		fmt.Println("2. create mint")
		fmt.Println("3. mint tokens")
		fmt.Println("4. transfer tokens")
		fmt.Println("5. burn tokens")
		fmt.Println("6. freeze account")
		fmt.Println("7. thaw account")
		fmt.Println("8. set authority")
		fmt.Println("9. create metadata")
		fmt.Println("10. update metadata")
		fmt.Println("0. quit")

		choice, err := prompt(in, "choice")
		if err != nil {
			return err
		}

		if choice == "0" || choice == "q" {
			return nil
		}

		if err := menuDispatch(ctx, rt, in, choice); err != nil {
			fmt.Println("ERROR:", err)
		}
	}
}

func menuDispatch(ctx context.Context, rt *runtime, in *bufio.Reader, choice string) error {
	switch choice {
	case "1":
		return menuBalance(ctx, rt)
	case "2":
		return menuCreateMint(ctx, rt, in)
	case "3":
		return menuMint(ctx, rt, in)
	case "4":
		return menuTransfer(ctx, rt, in)
	case "5":
		return menuBurn(ctx, rt, in)
	case "6":
		return menuFreezeThaw(ctx, rt, in, true)
	case "7":
		return menuFreezeThaw(ctx, rt, in, false)
	case "8":
		return menuSetAuthority(ctx, rt, in)
	case "9":
		return menuMetadata(ctx, rt, in, true)
	case "10":
		return menuMetadata(ctx, rt, in, false)
	}

	return fmt.Errorf("unknown choice %q", choice)
}

func menuBalance(ctx context.Context, rt *runtime) error {
	address := rt.payer.PublicKey.ToBase58()

	balance, err := rt.client.Balance(ctx, address)
	if err != nil {
		return err
	}
	fmt.Println("balance :", solana.FormatSOL(balance), "SOL")

	accounts, err := rt.client.TokenAccountsByOwner(ctx, address)
	if err != nil {
		return err
	}
	for _, acct := range accounts {
		fmt.Printf("  mint %s  amount %s  state %s\n", acct.Mint, acct.Amount, acct.State)
	}

	return nil
}

func menuCreateMint(ctx context.Context, rt *runtime, in *bufio.Reader) error {
	decimals, err := promptUint(in, "decimals")
	if err != nil {
		return err
	}

	// Checked before the uint8 conversion, a value like 256 would
	// otherwise truncate to 0 and be accepted.
	if decimals > 9 {
		return fmt.Errorf("decimals must be 9 or less: got %d", decimals)
	}
	freeze, err := prompt(in, "enable freeze [y/N]")
	if err != nil {
		return err
	}
	supply, err := promptUint(in, "initial supply in base units")
	if err != nil {
		return err
	}

	result, err := rt.token.CreateMint(ctx, token.CreateMintParams{
		Decimals:      uint8(decimals),
		EnableFreeze:  strings.EqualFold(freeze, "y"),
		InitialSupply: supply,
	})
	if err != nil {
		return err
	}

	rt.record("create-mint", result.Mint, result.Signature)
	fmt.Println("mint      :", result.Mint)
	fmt.Println("signature :", result.Signature)

	return nil
}

func menuMint(ctx context.Context, rt *runtime, in *bufio.Reader) error {
	mint, err := prompt(in, "mint address")
	if err != nil {
		return err
	}
	owner, err := prompt(in, "owner address (empty for fee payer)")
	if err != nil {
		return err
	}
	if owner == "" {
		owner = rt.payer.PublicKey.ToBase58()
	}
	amount, err := promptUint(in, "amount in base units")
	if err != nil {
		return err
	}

	result, err := rt.token.Mint(ctx, token.MintParams{Mint: mint, Owner: owner, Amount: amount})
	if err != nil {
		return err
	}

	rt.record("mint", mint, result.Signature)
	fmt.Println("signature :", result.Signature)

	return nil
}

func menuTransfer(ctx context.Context, rt *runtime, in *bufio.Reader) error {
	mint, err := prompt(in, "mint address")
	if err != nil {
		return err
	}
	to, err := prompt(in, "destination owner")
	if err != nil {
		return err
	}
	amount, err := promptUint(in, "amount in base units")
	if err != nil {
		return err
	}

	result, err := rt.token.Transfer(ctx, token.TransferParams{Mint: mint, To: to, Amount: amount})
	if err != nil {
		return err
	}

	rt.record("transfer", mint, result.Signature)
	fmt.Println("signature :", result.Signature)

	return nil
}

func menuBurn(ctx context.Context, rt *runtime, in *bufio.Reader) error {
	mint, err := prompt(in, "mint address")
	if err != nil {
		return err
	}
	amount, err := promptUint(in, "amount in base units")
	if err != nil {
		return err
	}

	result, err := rt.token.Burn(ctx, token.BurnParams{Mint: mint, Amount: amount})
	if err != nil {
		return err
	}

	rt.record("burn", mint, result.Signature)
	fmt.Println("signature :", result.Signature)

	return nil
}

func menuFreezeThaw(ctx context.Context, rt *runtime, in *bufio.Reader, freeze bool) error {
	op := "thaw"
	action := rt.token.Thaw
	batch := rt.token.BatchThaw
	if freeze {
		op = "freeze"
		action = rt.token.Freeze
		batch = rt.token.BatchFreeze
	}

	mint, err := prompt(in, "mint address")
	if err != nil {
		return err
	}
	owner, err := prompt(in, "owner address (empty for batch file)")
	if err != nil {
		return err
	}

	if owner != "" {
		result, err := action(ctx, token.FreezeParams{Mint: mint, Owner: owner})
		if err != nil {
			return err
		}

		rt.record(op, mint, result.Signature)
		fmt.Println("signature :", result.Signature)
		return nil
	}

	file, err := prompt(in, "batch file path")
	if err != nil {
		return err
	}
	owners, err := readOwnerFile(file)
	if err != nil {
		return err
	}

	result, batchErr := batch(ctx, mint, owners)
	for _, item := range result.Items {
		if item.Error != "" {
			fmt.Printf("%-44s  FAILED  %s\n", item.Owner, item.Error)
			continue
		}

		rt.record(op, mint, item.Signature)
		fmt.Printf("%-44s  %s\n", item.Owner, item.Signature)
	}
	fmt.Printf("%s: %d succeeded, %d failed\n", op, result.Succeeded, result.Failed)

	return batchErr
}

func menuSetAuthority(ctx context.Context, rt *runtime, in *bufio.Reader) error {
	mint, err := prompt(in, "mint address")
	if err != nil {
		return err
	}
	kind, err := prompt(in, "authority [mint/freeze]")
	if err != nil {
		return err
	}
	newAuth, err := prompt(in, "new authority (empty revokes)")
	if err != nil {
		return err
	}

	if newAuth == "" {
		confirm, err := prompt(in, "revoking is permanent, continue? [y/N]")
		if err != nil {
			return err
		}
		if !strings.EqualFold(confirm, "y") {
			return nil
		}
	}

	result, err := rt.token.SetAuthority(ctx, token.SetAuthorityParams{
		Mint:         mint,
		Authority:    kind,
		NewAuthority: newAuth,
	})
	if err != nil {
		return err
	}

	rt.record("set-authority", mint, result.Signature)
	fmt.Println("signature :", result.Signature)

	return nil
}

func menuMetadata(ctx context.Context, rt *runtime, in *bufio.Reader, create bool) error {
	mint, err := prompt(in, "mint address")
	if err != nil {
		return err
	}
	name, err := prompt(in, "name")
	if err != nil {
		return err
	}
	symbol, err := prompt(in, "symbol")
	if err != nil {
		return err
	}
	uri, err := prompt(in, "uri")
	if err != nil {
		return err
	}

	var result metadata.Result
	op := "metadata-update"

	if create {
		op = "metadata-create"
		result, err = rt.meta.Create(ctx, metadata.CreateParams{
			Mint:   mint,
			Name:   name,
			Symbol: symbol,
			URI:    uri,
		})
	} else {
		result, err = rt.meta.Update(ctx, metadata.UpdateParams{
			Mint:   mint,
			Name:   name,
			Symbol: symbol,
			URI:    uri,
		})
	}
	if err != nil {
		return err
	}

	rt.record(op, mint, result.Signature)
	fmt.Println("metadata  :", result.Metadata)
	fmt.Println("signature :", result.Signature)

	return nil
}

// =============================================================================

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s> ", label)

	line, err := in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func promptUint(in *bufio.Reader, label string) (uint64, error) {
	s, err := prompt(in, label)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q as number: %w", s, err)
	}

	return v, nil
}
