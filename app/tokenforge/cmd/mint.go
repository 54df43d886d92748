package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/token"
)

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint tokens to an owner",
	RunE:  mintRun,
}

var (
	mintMint   string
	mintOwner  string
	mintAmount uint64
)

func init() {
	mintCmd.Flags().StringVarP(&mintMint, "mint", "m", "", "Mint address of the token.")
	mintCmd.Flags().StringVarP(&mintOwner, "owner", "o", "", "Owner to receive the tokens. Defaults to the fee payer.")
	mintCmd.Flags().Uint64VarP(&mintAmount, "amount", "a", 0, "Amount in base units.")
	mintCmd.MarkFlagRequired("mint")
	mintCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(mintCmd)
}

func mintRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	owner := mintOwner
	if owner == "" {
		owner = rt.payer.PublicKey.ToBase58()
	}

	result, err := rt.token.Mint(context.Background(), token.MintParams{
		Mint:   mintMint,
		Owner:  owner,
		Amount: mintAmount,
	})
	if err != nil {
		return err
	}

	rt.record("mint", mintMint, result.Signature)

	fmt.Println("signature :", result.Signature)

	return nil
}
