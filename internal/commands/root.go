package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/expenses/internal/buildinfo"
	"github.com/cleared-dev/expenses/internal/config"
	"github.com/cleared-dev/expenses/internal/gitops"
	"github.com/cleared-dev/expenses/internal/history"
	"github.com/cleared-dev/expenses/internal/ledger"
	"github.com/cleared-dev/expenses/internal/shell"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	ledgerPath string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Run without a subcommand it starts the interactive menu.
func NewRootCommand() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:     "expenses",
		Short:   "Personal expense ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", config.FileName, "config file")
	rootCmd.PersistentFlags().StringVar(&flags.ledgerPath, "file", "", "ledger file (overrides storage.path)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug details to stderr")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newHistoryCommand(&flags))
	rootCmd.AddCommand(newImportCommand(&flags))

	return rootCmd
}

// loadConfig reads the config file, applies flag overrides and installs the
// logger.
func loadConfig(cmd *cobra.Command, flags globalFlags) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOptional(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.ledgerPath != "" {
		cfg.Storage.Path = flags.ledgerPath
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

// openLedger opens the configured ledger and wires history and git hooks.
func openLedger(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*ledger.Store, error) {
	stderr := cmd.ErrOrStderr()
	opts := []ledger.Option{ledger.WithLogger(logger)}

	if cfg.Storage.HistoryPath != "" {
		rec := &history.Recorder{
			Path: cfg.Storage.HistoryPath,
			OnError: func(err error) {
				fmt.Fprintf(stderr, "warning: failed to write history: %v\n", err)
			},
		}
		opts = append(opts, ledger.WithChangeHook(rec.Record))
	}

	if cfg.Git.AutoCommit {
		dir := filepath.Dir(cfg.Storage.Path)
		if gitops.IsRepo(dir) {
			committer := &gitops.Committer{
				LedgerPath:  cfg.Storage.Path,
				AuthorName:  cfg.Git.AuthorName,
				AuthorEmail: cfg.Git.AuthorEmail,
				OnCommit: func(hash string) {
					logger.Debug("ledger committed", "hash", hash)
				},
				OnError: func(err error) {
					fmt.Fprintf(stderr, "warning: failed to commit ledger: %v\n", err)
				},
			}
			opts = append(opts, ledger.WithChangeHook(committer.Record))
		} else {
			logger.Warn("git.auto_commit is set but the ledger is not in a git repository", "dir", dir)
		}
	}

	store, err := ledger.Open(cfg.Storage.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading expenses: %w", err)
	}
	return store, nil
}

func runShell(cmd *cobra.Command, flags globalFlags) error {
	cfg, logger, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	store, err := openLedger(cmd, cfg, logger)
	if err != nil {
		return err
	}

	sh := shell.New(store, cmd.InOrStdin(), cmd.OutOrStdout(), shell.Currency{
		Base:         cfg.Currency.Base,
		BaseSymbol:   cfg.Currency.BaseSymbol,
		Target:       cfg.Currency.Target,
		TargetSymbol: cfg.Currency.TargetSymbol,
	})
	return sh.Run()
}
