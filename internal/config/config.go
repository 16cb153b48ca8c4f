package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name.
const FileName = "expenses.yaml"

// Config represents the top-level expenses.yaml configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Currency CurrencyConfig `yaml:"currency"`
	Git      GitConfig      `yaml:"git"`
	Log      LogConfig      `yaml:"log"`
}

// StorageConfig locates the ledger and its history. Relative paths are
// resolved against the directory holding the config file.
type StorageConfig struct {
	Path        string `yaml:"path"`
	HistoryPath string `yaml:"history_path,omitempty"` // empty disables history
}

// CurrencyConfig names the ledger currency and the conversion target.
type CurrencyConfig struct {
	Base         string `yaml:"base"`
	BaseSymbol   string `yaml:"base_symbol"`
	Target       string `yaml:"target"`
	TargetSymbol string `yaml:"target_symbol"`
}

// GitConfig controls committing the ledger file after each change.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig sets the minimum level of diagnostic logs written to stderr.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads a config file from disk. Fields missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields Default with
// paths resolved against the file's directory.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.resolve(filepath.Dir(path))
		return cfg, nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: "expenses.json",
		},
		Currency: CurrencyConfig{
			Base:         "USD",
			BaseSymbol:   "$",
			Target:       "INR",
			TargetSymbol: "₹",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Expenses",
			AuthorEmail: "expenses@localhost",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate reports every problem with cfg in one error.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Storage.Path) == "" {
		problems = append(problems, "storage.path cannot be empty")
	}
	if strings.TrimSpace(c.Currency.Base) == "" {
		problems = append(problems, "currency.base cannot be empty")
	}
	if strings.TrimSpace(c.Currency.Target) == "" {
		problems = append(problems, "currency.target cannot be empty")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Git.AutoCommit && (c.Git.AuthorName == "" || c.Git.AuthorEmail == "") {
		problems = append(problems, "git.author_name and git.author_email are required when git.auto_commit is set")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SlogLevel maps Level to a slog.Level. An empty level means warn.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log.level %q", l.Level)
	}
}

func (c *Config) resolve(dir string) {
	c.Storage.Path = resolvePath(dir, c.Storage.Path)
	c.Storage.HistoryPath = resolvePath(dir, c.Storage.HistoryPath)
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
