package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/token"
)

var authorityCmd = &cobra.Command{
	Use:   "set-authority",
	Short: "Change or revoke the mint or freeze authority on a mint",
	RunE:  authorityRun,
}

var (
	authorityMint string
	authorityKind string
	authorityNew  string
)

func init() {
	authorityCmd.Flags().StringVarP(&authorityMint, "mint", "m", "", "Mint address of the token.")
	authorityCmd.Flags().StringVarP(&authorityKind, "authority", "t", token.AuthorityMint, "Authority to change: mint or freeze.")
	authorityCmd.Flags().StringVarP(&authorityNew, "new", "n", "", "New authority address. Empty revokes the authority for good.")
	authorityCmd.MarkFlagRequired("mint")

	rootCmd.AddCommand(authorityCmd)
}

func authorityRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.token.SetAuthority(context.Background(), token.SetAuthorityParams{
		Mint:         authorityMint,
		Authority:    authorityKind,
		NewAuthority: authorityNew,
	})
	if err != nil {
		return err
	}

	rt.record("set-authority", authorityMint, result.Signature)

	fmt.Println("signature :", result.Signature)

	return nil
}
