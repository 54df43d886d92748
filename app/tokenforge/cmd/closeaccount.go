package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/token"
)

var closeAccountCmd = &cobra.Command{
	Use:   "close-account",
	Short: "Close an empty token account and reclaim its rent",
	RunE:  closeAccountRun,
}

var closeAddress string

func init() {
	closeAccountCmd.Flags().StringVarP(&closeAddress, "account", "c", "", "Token account address to close.")
	closeAccountCmd.MarkFlagRequired("account")

	rootCmd.AddCommand(closeAccountCmd)
}

func closeAccountRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.token.CloseAccount(context.Background(), token.CloseAccountParams{
		Account: closeAddress,
	})
	if err != nil {
		return err
	}

	rt.record("close-account", "", result.Signature)

	fmt.Println("signature :", result.Signature)

	return nil
}
