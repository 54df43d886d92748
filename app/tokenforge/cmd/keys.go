package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/foundation/keystore"
	"github.com/tokenforge/tokenforge/foundation/solana"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage keypair files",
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new keypair file in the keys folder",
	RunE:  keysGenerateRun,
}

var keysShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the fee payer address",
	RunE:  keysShowRun,
}

var keysAirdropCmd = &cobra.Command{
	Use:   "airdrop",
	Short: "Request a SOL airdrop for the fee payer",
	RunE:  keysAirdropRun,
}

var (
	keyName    string
	showSecret bool
	airdropSOL float64
)

func init() {
	keysGenerateCmd.Flags().StringVarP(&keyName, "name", "n", "payer", "Name for the keypair file.")
	keysShowCmd.Flags().BoolVarP(&showSecret, "secret", "s", false, "Also print the base58 encoded secret key.")
	keysAirdropCmd.Flags().Float64VarP(&airdropSOL, "sol", "a", 1, "Amount of SOL to request.")

	keysCmd.AddCommand(keysGenerateCmd, keysShowCmd, keysAirdropCmd)
	rootCmd.AddCommand(keysCmd)
}

func keysGenerateRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	account := keystore.Generate()
	path := keystore.Path(cfg.Keys.Folder, keyName)

	if err := keystore.Save(path, account); err != nil {
		return err
	}

	fmt.Println("file    :", path)
	fmt.Println("address :", account.PublicKey.ToBase58())

	return nil
}

func keysShowRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	account, err := keystore.Load(keystore.Path(cfg.Keys.Folder, cfg.Keys.Name))
	if err != nil {
		return err
	}

	fmt.Println("address :", account.PublicKey.ToBase58())
	if showSecret {
		fmt.Println("secret  :", keystore.EncodeSecret(account))
	}

	return nil
}

func keysAirdropRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	lamports := uint64(airdropSOL * solana.LamportsPerSOL)

	sig, err := rt.client.RequestAirdrop(ctx, rt.payer.PublicKey.ToBase58(), lamports)
	if err != nil {
		return err
	}

	if err := rt.client.Confirm(ctx, sig); err != nil {
		return err
	}

	fmt.Println("airdrop   :", solana.FormatSOL(lamports), "SOL")
	fmt.Println("signature :", sig)

	return nil
}
