package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/token"
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer tokens from the fee payer to another owner",
	RunE:  transferRun,
}

var (
	transferMint   string
	transferTo     string
	transferAmount uint64
)

func init() {
	transferCmd.Flags().StringVarP(&transferMint, "mint", "m", "", "Mint address of the token.")
	transferCmd.Flags().StringVarP(&transferTo, "to", "t", "", "Owner to receive the tokens.")
	transferCmd.Flags().Uint64VarP(&transferAmount, "amount", "a", 0, "Amount in base units.")
	transferCmd.MarkFlagRequired("mint")
	transferCmd.MarkFlagRequired("to")
	transferCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(transferCmd)
}

func transferRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.token.Transfer(context.Background(), token.TransferParams{
		Mint:   transferMint,
		To:     transferTo,
		Amount: transferAmount,
	})
	if err != nil {
		return err
	}

	rt.record("transfer", transferMint, result.Signature)

	fmt.Println("signature :", result.Signature)

	return nil
}
