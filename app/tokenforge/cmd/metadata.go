package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/metadata"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Manage the on-chain metadata of a mint",
}

var metadataCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the metadata account for a mint",
	RunE:  metadataCreateRun,
}

var metadataUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the metadata of a mint",
	RunE:  metadataUpdateRun,
}

var (
	metaMint      string
	metaName      string
	metaSymbol    string
	metaURI       string
	metaSellerFee uint16
	metaImmutable bool
	metaNewAuth   string
)

func init() {
	for _, c := range []*cobra.Command{metadataCreateCmd, metadataUpdateCmd} {
		c.Flags().StringVarP(&metaMint, "mint", "m", "", "Mint address of the token.")
		c.Flags().StringVarP(&metaName, "name", "n", "", "Token name, at most 32 characters.")
		c.Flags().StringVarP(&metaSymbol, "symbol", "s", "", "Token symbol, at most 10 characters.")
		c.Flags().StringVarP(&metaURI, "uri", "u", "", "URI of the off-chain metadata, at most 200 characters.")
		c.Flags().Uint16Var(&metaSellerFee, "seller-fee", 0, "Seller fee in basis points.")
		c.MarkFlagRequired("mint")
		c.MarkFlagRequired("name")
		c.MarkFlagRequired("symbol")
		c.MarkFlagRequired("uri")
	}

	metadataCreateCmd.Flags().BoolVar(&metaImmutable, "immutable", false, "Make the metadata immutable.")
	metadataUpdateCmd.Flags().StringVar(&metaNewAuth, "new-authority", "", "Hand the update authority to this address.")

	metadataCmd.AddCommand(metadataCreateCmd, metadataUpdateCmd)
	rootCmd.AddCommand(metadataCmd)
}

func metadataCreateRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.meta.Create(context.Background(), metadata.CreateParams{
		Mint:                 metaMint,
		Name:                 metaName,
		Symbol:               metaSymbol,
		URI:                  metaURI,
		SellerFeeBasisPoints: metaSellerFee,
		Immutable:            metaImmutable,
	})
	if err != nil {
		return err
	}

	rt.record("metadata-create", metaMint, result.Signature)

	fmt.Println("metadata  :", result.Metadata)
	fmt.Println("signature :", result.Signature)

	return nil
}

func metadataUpdateRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.meta.Update(context.Background(), metadata.UpdateParams{
		Mint:                 metaMint,
		Name:                 metaName,
		Symbol:               metaSymbol,
		URI:                  metaURI,
		SellerFeeBasisPoints: metaSellerFee,
		NewUpdateAuthority:   metaNewAuth,
	})
	if err != nil {
		return err
	}

	rt.record("metadata-update", metaMint, result.Signature)

	fmt.Println("metadata  :", result.Metadata)
	fmt.Println("signature :", result.Signature)

	return nil
}
