package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/foundation/nameservice"
	"github.com/tokenforge/tokenforge/foundation/solana"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the SOL balance and token accounts for an address",
	RunE:  balanceRun,
}

var balanceAddress string

func init() {
	balanceCmd.Flags().StringVarP(&balanceAddress, "address", "d", "", "Address to query. Defaults to the fee payer.")
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	address := balanceAddress
	if address == "" {
		address = rt.payer.PublicKey.ToBase58()
	}

	ns, err := nameservice.New(rt.cfg.Keys.Folder)
	if err != nil {
		return err
	}

	ctx := context.Background()

	balance, err := rt.client.Balance(ctx, address)
	if err != nil {
		return err
	}

	fmt.Println("account :", ns.Lookup(address))
	fmt.Println("address :", address)
	fmt.Println("balance :", solana.FormatSOL(balance), "SOL")

	accounts, err := rt.client.TokenAccountsByOwner(ctx, address)
	if err != nil {
		return err
	}

	if len(accounts) == 0 {
		fmt.Println("tokens  : none")
		return nil
	}

	fmt.Println("tokens  :")
	for _, acct := range accounts {
		fmt.Printf("  mint %s  amount %s  decimals %d  state %s\n", acct.Mint, acct.Amount, acct.Decimals, acct.State)
	}

	return nil
}
