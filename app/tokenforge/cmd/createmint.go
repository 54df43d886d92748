package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/token"
)

var createMintCmd = &cobra.Command{
	Use:   "create-mint",
	Short: "Create and initialize a new token mint",
	RunE:  createMintRun,
}

var (
	createDecimals uint8
	createFreeze   bool
	createSupply   uint64
)

func init() {
	createMintCmd.Flags().Uint8VarP(&createDecimals, "decimals", "d", 9, "Number of decimal places for the token.")
	createMintCmd.Flags().BoolVarP(&createFreeze, "freeze", "f", false, "Enable the freeze authority on the mint.")
	createMintCmd.Flags().Uint64VarP(&createSupply, "supply", "s", 0, "Initial supply in base units minted to the fee payer.")

	rootCmd.AddCommand(createMintCmd)
}

func createMintRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.token.CreateMint(context.Background(), token.CreateMintParams{
		Decimals:      createDecimals,
		EnableFreeze:  createFreeze,
		InitialSupply: createSupply,
	})
	if err != nil {
		return err
	}

	rt.record("create-mint", result.Mint, result.Signature)

	fmt.Println("mint      :", result.Mint)
	fmt.Println("signature :", result.Signature)

	return nil
}
