package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/token"
)

var freezeCmd = &cobra.Command{
	Use:   "freeze",
	Short: "Freeze an owner's token account, or a batch of owners",
	RunE: func(cmd *cobra.Command, args []string) error {
		return freezeThawRun(true)
	},
}

var thawCmd = &cobra.Command{
	Use:   "thaw",
	Short: "Thaw an owner's token account, or a batch of owners",
	RunE: func(cmd *cobra.Command, args []string) error {
		return freezeThawRun(false)
	},
}

var (
	freezeMint  string
	freezeOwner string
	freezeFile  string
)

func init() {
	for _, c := range []*cobra.Command{freezeCmd, thawCmd} {
		c.Flags().StringVarP(&freezeMint, "mint", "m", "", "Mint address of the token.")
		c.Flags().StringVarP(&freezeOwner, "owner", "o", "", "Owner whose token account to act on.")
		c.Flags().StringVarP(&freezeFile, "file", "f", "", "File with one owner address per line for batch mode.")
		c.MarkFlagRequired("mint")
	}

	rootCmd.AddCommand(freezeCmd, thawCmd)
}

func freezeThawRun(freeze bool) error {
	if freezeOwner == "" && freezeFile == "" {
		return errors.New("either --owner or --file must be provided")
	}

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := context.Background()
	op := "thaw"
	action := rt.token.Thaw
	batch := rt.token.BatchThaw
	if freeze {
		op = "freeze"
		action = rt.token.Freeze
		batch = rt.token.BatchFreeze
	}

	if freezeFile == "" {
		result, err := action(ctx, token.FreezeParams{
			Mint:  freezeMint,
			Owner: freezeOwner,
		})
		if err != nil {
			return err
		}

		rt.record(op, freezeMint, result.Signature)

		fmt.Println("signature :", result.Signature)
		return nil
	}

	owners, err := readOwnerFile(freezeFile)
	if err != nil {
		return err
	}

	result, batchErr := batch(ctx, freezeMint, owners)

	for _, item := range result.Items {
		if item.Error != "" {
			fmt.Printf("%-44s  FAILED  %s\n", item.Owner, item.Error)
			continue
		}

		rt.record(op, freezeMint, item.Signature)
		fmt.Printf("%-44s  %s\n", item.Owner, item.Signature)
	}

	fmt.Printf("%s: %d succeeded, %d failed\n", op, result.Succeeded, result.Failed)

	return batchErr
}

// readOwnerFile reads a batch file holding one owner address per line.
// Blank lines and lines starting with # are skipped.
func readOwnerFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	var owners []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		owners = append(owners, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	return owners, nil
}
