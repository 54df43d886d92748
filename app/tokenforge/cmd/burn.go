package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/token"
)

var burnCmd = &cobra.Command{
	Use:   "burn",
	Short: "Burn tokens from the fee payer's token account",
	RunE:  burnRun,
}

var (
	burnMint   string
	burnAmount uint64
)

func init() {
	burnCmd.Flags().StringVarP(&burnMint, "mint", "m", "", "Mint address of the token.")
	burnCmd.Flags().Uint64VarP(&burnAmount, "amount", "a", 0, "Amount in base units.")
	burnCmd.MarkFlagRequired("mint")
	burnCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(burnCmd)
}

func burnRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.token.Burn(context.Background(), token.BurnParams{
		Mint:   burnMint,
		Amount: burnAmount,
	})
	if err != nil {
		return err
	}

	rt.record("burn", burnMint, result.Signature)

	fmt.Println("signature :", result.Signature)

	return nil
}
