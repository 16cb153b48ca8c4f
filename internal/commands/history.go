package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/history"
)

func newHistoryCommand(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded changes to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd, *flags)
			if err != nil {
				return err
			}
			if cfg.Storage.HistoryPath == "" {
				return fmt.Errorf("history is disabled: set storage.history_path in %s", flags.configPath)
			}

			entries, err := history.Read(cfg.Storage.HistoryPath)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes recorded.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), e.Summary())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last n changes")

	return cmd
}
