package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/config"
	"github.com/cleared-dev/expenses/internal/gitops"
	"github.com/cleared-dev/expenses/internal/ledger"
)

func newInitCommand() *cobra.Command {
	var withGit bool
	var target string
	var targetSymbol string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a config file and an empty ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default()
			cfg.Git.AutoCommit = withGit
			cfg.Storage.HistoryPath = "expenses-history.csv"
			if target != "" {
				cfg.Currency.Target = target
			}
			if targetSymbol != "" {
				cfg.Currency.TargetSymbol = targetSymbol
			}
			hash, err := runInit(absDir, cfg)
			if err != nil {
				return err
			}

			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized expense ledger at %s (%s)\n", absDir, hash)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized expense ledger at %s\n", absDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository and commit every change")
	cmd.Flags().StringVar(&target, "target", "", "conversion currency code, e.g. EUR")
	cmd.Flags().StringVar(&targetSymbol, "target-symbol", "", "conversion currency symbol, e.g. €")

	return cmd
}

// runInit writes expenses.yaml and an empty ledger into dir. An existing
// ledger is kept. Returns the initial commit hash when cfg enables git.
// A directory created here holds only the new files and is committed whole;
// in an existing directory only the config and ledger are committed.
func runInit(dir string, cfg *config.Config) (string, error) {
	_, statErr := os.Stat(dir)
	created := errors.Is(statErr, fs.ErrNotExist)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("%s already exists", configPath)
	}
	if err := config.Save(configPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	ledgerPath := filepath.Join(dir, cfg.Storage.Path)
	if _, err := os.Stat(ledgerPath); errors.Is(err, fs.ErrNotExist) {
		if err := ledger.Save(ledgerPath, nil); err != nil {
			return "", fmt.Errorf("writing ledger: %w", err)
		}
	}

	if !cfg.Git.AutoCommit {
		return "", nil
	}

	const message = "init: expense ledger"
	var hash string
	var err error
	if created {
		if err := gitops.Init(dir); err != nil {
			return "", fmt.Errorf("git init: %w", err)
		}
		hash, err = gitops.CommitAll(dir, message, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	} else {
		if !gitops.IsRepo(dir) {
			if err := gitops.Init(dir); err != nil {
				return "", fmt.Errorf("git init: %w", err)
			}
		}
		hash, err = gitops.CommitPaths(dir, message, cfg.Git.AuthorName, cfg.Git.AuthorEmail,
			config.FileName, cfg.Storage.Path)
	}
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
