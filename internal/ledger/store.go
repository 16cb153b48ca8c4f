package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/model"
)

// Action names a kind of ledger mutation.
type Action string

const (
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
	ActionEdit   Action = "edit"
	ActionImport Action = "import"
)

// Change describes a mutation that has been persisted. Before is nil for
// ActionAdd and ActionImport, After is nil for ActionDelete. For ActionImport
// Position is the first appended position and Added holds every new expense.
type Change struct {
	Action   Action
	Position int
	Before   *model.Expense
	After    *model.Expense
	Added    []model.Expense
}

// Store holds the ledger in memory and rewrites its file after every
// mutation.
type Store struct {
	path     string
	expenses []model.Expense
	hooks    []func(Change)
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithChangeHook registers fn to run after each persisted mutation.
func WithChangeHook(fn func(Change)) Option {
	return func(s *Store) { s.hooks = append(s.hooks, fn) }
}

// WithLogger sets the logger used for storage events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads the ledger at path. A missing file yields an empty ledger.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	expenses, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.expenses = expenses
	s.logger.Debug("ledger loaded", "path", path, "expenses", len(expenses))
	return s, nil
}

// Load reads the ledger file at path.
func Load(path string) ([]model.Expense, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrStorageUnavailable, path, err)
	}

	expenses, err := ReadExpenses(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStorageCorrupt, path, err)
	}
	return expenses, nil
}

// Save replaces the file at path with expenses. The content is written to a
// temporary file in the same directory and renamed over path.
func Save(path string, expenses []model.Expense) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrStorageUnavailable, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", ErrStorageUnavailable, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := WriteExpenses(tmp, expenses); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing temp file: %w", ErrStorageUnavailable, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: replacing %s: %w", ErrStorageUnavailable, path, err)
	}
	return nil
}

// Path returns the ledger file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of expenses.
func (s *Store) Len() int { return len(s.expenses) }

// Expenses returns a copy of the ledger in display order.
func (s *Store) Expenses() []model.Expense {
	out := make([]model.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// Save rewrites the ledger file with the in-memory ledger.
func (s *Store) Save() error {
	if err := Save(s.path, s.expenses); err != nil {
		return err
	}
	s.logger.Debug("ledger saved", "path", s.path, "expenses", len(s.expenses))
	return nil
}

// Add appends an expense. The category is stored as given, including empty.
func (s *Store) Add(category string, amount decimal.Decimal) (model.Expense, error) {
	if err := checkAmount(amount); err != nil {
		return model.Expense{}, err
	}

	exp := model.Expense{Category: category, Amount: amount}
	next := make([]model.Expense, len(s.expenses), len(s.expenses)+1)
	copy(next, s.expenses)
	next = append(next, exp)

	if err := s.commit(next, Change{Action: ActionAdd, Position: len(next), After: &exp}); err != nil {
		return model.Expense{}, err
	}
	return exp, nil
}

// AddAll appends expenses in order with a single write. Nothing is added if
// any amount is invalid.
func (s *Store) AddAll(expenses []model.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	for i, exp := range expenses {
		if err := checkAmount(exp.Amount); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}

	added := make([]model.Expense, len(expenses))
	copy(added, expenses)
	next := make([]model.Expense, 0, len(s.expenses)+len(added))
	next = append(next, s.expenses...)
	next = append(next, added...)

	return s.commit(next, Change{Action: ActionImport, Position: len(s.expenses) + 1, Added: added})
}

// Delete removes the expense at a 1-based position and returns it.
func (s *Store) Delete(position int) (model.Expense, error) {
	i, err := s.index(position)
	if err != nil {
		return model.Expense{}, err
	}

	removed := s.expenses[i]
	next := make([]model.Expense, 0, len(s.expenses)-1)
	next = append(next, s.expenses[:i]...)
	next = append(next, s.expenses[i+1:]...)

	if err := s.commit(next, Change{Action: ActionDelete, Position: position, Before: &removed}); err != nil {
		return model.Expense{}, err
	}
	return removed, nil
}

// EditParams holds replacement values for Edit. A nil field keeps the
// current value.
type EditParams struct {
	Category *string
	Amount   *decimal.Decimal
}

// Edit replaces the expense at a 1-based position and returns the new value.
// Nothing changes if any supplied field is invalid.
func (s *Store) Edit(position int, params EditParams) (model.Expense, error) {
	i, err := s.index(position)
	if err != nil {
		return model.Expense{}, err
	}

	before := s.expenses[i]
	after := before
	if params.Category != nil {
		after.Category = *params.Category
	}
	if params.Amount != nil {
		if err := checkAmount(*params.Amount); err != nil {
			return model.Expense{}, err
		}
		after.Amount = *params.Amount
	}

	next := s.Expenses()
	next[i] = after

	if err := s.commit(next, Change{Action: ActionEdit, Position: position, Before: &before, After: &after}); err != nil {
		return model.Expense{}, err
	}
	return after, nil
}

// List returns the numbered ledger and its grand total.
func (s *Store) List() Listing {
	return ListExpenses(s.expenses)
}

// Summarize returns category subtotals in first-seen order and the grand total.
func (s *Store) Summarize() Summary {
	return SummarizeExpenses(s.expenses)
}

// ConvertAll projects every amount through rate without changing the ledger.
func (s *Store) ConvertAll(rate decimal.Decimal) (Conversion, error) {
	if !rate.IsPositive() {
		return Conversion{}, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidRate, rate)
	}
	if !inRange(rate) {
		return Conversion{}, fmt.Errorf("%w: out of range", ErrInvalidRate)
	}
	return ConvertExpenses(s.expenses, rate), nil
}

func (s *Store) index(position int) (int, error) {
	if len(s.expenses) == 0 {
		return 0, ErrEmptyLedger
	}
	if position < 1 || position > len(s.expenses) {
		return 0, fmt.Errorf("%w: %d is not between 1 and %d", ErrInvalidSelection, position, len(s.expenses))
	}
	return position - 1, nil
}

// commit persists next and only then makes it the in-memory ledger.
func (s *Store) commit(next []model.Expense, change Change) error {
	if err := Save(s.path, next); err != nil {
		s.logger.Warn("ledger save failed", "path", s.path, "action", change.Action, "error", err)
		return err
	}
	s.expenses = next
	s.logger.Debug("ledger saved", "path", s.path, "action", change.Action, "position", change.Position, "expenses", len(next))

	for _, fn := range s.hooks {
		fn(change)
	}
	return nil
}
