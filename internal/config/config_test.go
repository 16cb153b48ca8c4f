package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Storage.Path = "ledger.json"
	cfg.Storage.HistoryPath = "logs/history.csv"
	cfg.Currency.Target = "EUR"
	cfg.Currency.TargetSymbol = "€"
	cfg.Git.AutoCommit = true

	path := filepath.Join(dir, FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "ledger.json"), got.Storage.Path)
	assert.Equal(t, filepath.Join(dir, "logs", "history.csv"), got.Storage.HistoryPath)
	assert.Equal(t, "USD", got.Currency.Base)
	assert.Equal(t, "EUR", got.Currency.Target)
	assert.Equal(t, "€", got.Currency.TargetSymbol)
	assert.True(t, got.Git.AutoCommit)
	assert.Equal(t, cfg.Git.AuthorName, got.Git.AuthorName)
	assert.Equal(t, cfg.Git.AuthorEmail, got.Git.AuthorEmail)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "expenses.json", cfg.Storage.Path)
	assert.Empty(t, cfg.Storage.HistoryPath)
	assert.Equal(t, "USD", cfg.Currency.Base)
	assert.Equal(t, "$", cfg.Currency.BaseSymbol)
	assert.Equal(t, "INR", cfg.Currency.Target)
	assert.Equal(t, "₹", cfg.Currency.TargetSymbol)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOptional_Missing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOptional(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "expenses.json"), cfg.Storage.Path)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("currency:\n  target: GBP\n  target_symbol: \"£\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "GBP", cfg.Currency.Target)
	assert.Equal(t, "USD", cfg.Currency.Base)
	assert.Equal(t, filepath.Join(dir, "expenses.json"), cfg.Storage.Path)
}

func TestLoad_AbsolutePathKept(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere.json")
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  path: "+abs+"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.Storage.Path)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = ""
	cfg.Currency.Target = ""
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.path")
	assert.Contains(t, err.Error(), "currency.target")
	assert.Contains(t, err.Error(), "log.level")
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := LogConfig{Level: tt.in}.SlogLevel()
		require.NoError(t, err, "level %q", tt.in)
		assert.Equal(t, tt.want, got, "level %q", tt.in)
	}
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "path: expenses.json")
	assert.Contains(t, contents, "target: INR")
	assert.Contains(t, contents, "auto_commit: false")
	assert.NotContains(t, contents, "history_path")
}
