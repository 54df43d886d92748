package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tokenforge/tokenforge/business/core/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the operations submitted by this tool",
	RunE:  historyRun,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of records to show, newest last. 0 shows all.")
	rootCmd.AddCommand(historyCmd)
}

func historyRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	hist, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer hist.Close()

	records, err := hist.Records()
	if err != nil {
		return err
	}

	if historyLimit > 0 && len(records) > historyLimit {
		records = records[len(records)-historyLimit:]
	}

	if len(records) == 0 {
		fmt.Println("no history")
		return nil
	}

	for _, r := range records {
		fmt.Printf("%s  %-16s  %-44s  %s\n", r.SubmittedAt.Format("2006-01-02 15:04:05"), r.Op, r.Mint, r.Signature)
	}

	return nil
}
