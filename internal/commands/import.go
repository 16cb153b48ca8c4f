package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/importer"
)

func newImportCommand(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append expenses from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, *flags)
			if err != nil {
				return err
			}

			expenses, err := importer.DefaultRegistry().ParseFile(args[0], format)
			if err != nil {
				return err
			}
			if len(expenses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expenses found.")
				return nil
			}

			store, err := openLedger(cmd, cfg, logger)
			if err != nil {
				return err
			}
			if err := store.AddAll(expenses); err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d expenses (%d total).\n", len(expenses), store.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "file format (csv, chase)")

	return cmd
}
