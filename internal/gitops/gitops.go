package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/expenses/internal/ledger"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// CommitPaths stages paths and commits them if they changed. Returns the
// short commit hash, or "" when there was nothing to commit.
func CommitPaths(dir, message, authorName, authorEmail string, paths ...string) (string, error) {
	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)

	// Stage.
	add := exec.Command("git", append([]string{"add", "--"}, paths...)...)
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	// Skip when the staged content matches HEAD.
	status := exec.Command("git", append([]string{"status", "--porcelain", "--"}, paths...)...)
	status.Dir = dir
	out, err := status.Output()
	if err != nil {
		return "", fmt.Errorf("git status: %w", err)
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return "", nil
	}

	// Commit. The committer is the author so that commits work without a
	// configured git identity.
	commit := exec.Command("git", append([]string{"commit", "-m", message, "--author", author, "--"}, paths...)...)
	commit.Dir = dir
	commit.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+authorName,
		"GIT_COMMITTER_EMAIL="+authorEmail,
	)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	return head(dir)
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(dir, message, authorName, authorEmail string) (string, error) {
	add := exec.Command("git", "add", "-A")
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	commit := exec.Command("git", "commit", "-m", message, "--author", fmt.Sprintf("%s <%s>", authorName, authorEmail))
	commit.Dir = dir
	commit.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+authorName,
		"GIT_COMMITTER_EMAIL="+authorEmail,
	)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	return head(dir)
}

func head(dir string) (string, error) {
	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// Message returns a one-line commit message for a ledger change,
// e.g. "add: Food 10.00".
func Message(c ledger.Change) string {
	switch c.Action {
	case ledger.ActionAdd:
		return fmt.Sprintf("add: %s %s", c.After.Category, c.After.Amount.StringFixed(2))
	case ledger.ActionImport:
		return fmt.Sprintf("import: %d expenses", len(c.Added))
	case ledger.ActionDelete:
		return fmt.Sprintf("delete: #%d %s %s", c.Position, c.Before.Category, c.Before.Amount.StringFixed(2))
	default:
		return fmt.Sprintf("%s: #%d %s %s", c.Action, c.Position, c.After.Category, c.After.Amount.StringFixed(2))
	}
}

// Committer commits the ledger file after every change.
type Committer struct {
	LedgerPath  string
	AuthorName  string
	AuthorEmail string
	OnCommit    func(hash string)
	OnError     func(error)
}

// Record is a ledger change hook.
func (c *Committer) Record(change ledger.Change) {
	dir := filepath.Dir(c.LedgerPath)
	hash, err := CommitPaths(dir, Message(change), c.AuthorName, c.AuthorEmail, filepath.Base(c.LedgerPath))
	if err != nil {
		if c.OnError != nil {
			c.OnError(err)
		}
		return
	}
	if hash != "" && c.OnCommit != nil {
		c.OnCommit(hash)
	}
}
