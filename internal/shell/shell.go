package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/ledger"
	"github.com/cleared-dev/expenses/internal/model"
)

// Menu choices.
const (
	choiceAdd     = "1"
	choiceView    = "2"
	choiceDelete  = "3"
	choiceEdit    = "4"
	choiceSummary = "5"
	choiceConvert = "6"
	choiceExit    = "7"
)

// Currency describes how amounts are labelled.
type Currency struct {
	Base         string // e.g. "USD"
	BaseSymbol   string // e.g. "$"
	Target       string // conversion target, e.g. "INR"
	TargetSymbol string // e.g. "₹"
}

// DefaultCurrency labels amounts in US dollars and converts to rupees.
func DefaultCurrency() Currency {
	return Currency{Base: "USD", BaseSymbol: "$", Target: "INR", TargetSymbol: "₹"}
}

// Shell is the menu loop. It reads one line per prompt and writes all
// messages to out.
type Shell struct {
	store    *ledger.Store
	in       *bufio.Reader
	out      io.Writer
	currency Currency
	err      error // read error other than io.EOF
}

// New creates a Shell over store.
func New(store *ledger.Store, in io.Reader, out io.Writer, currency Currency) *Shell {
	return &Shell{
		store:    store,
		in:       bufio.NewReader(in),
		out:      out,
		currency: currency,
	}
}

// Run shows the menu until the user exits or input ends. Ledger errors are
// reported to the user and never end the loop.
func (sh *Shell) Run() error {
	for {
		sh.printMenu()
		choice, ok := sh.prompt("Choose an option: ")
		if !ok {
			sh.println()
			return sh.err
		}

		switch strings.TrimSpace(choice) {
		case choiceAdd:
			sh.add()
		case choiceView:
			sh.view()
		case choiceDelete:
			sh.delete()
		case choiceEdit:
			sh.edit()
		case choiceSummary:
			sh.summary()
		case choiceConvert:
			sh.convert()
		case choiceExit:
			sh.println("Goodbye!")
			return nil
		default:
			sh.println("Invalid choice, please try again.")
		}
	}
}

func (sh *Shell) printMenu() {
	sh.println()
	sh.println("Expense Tracker Menu:")
	sh.println("1. Add Expense")
	sh.println("2. View Expenses")
	sh.println("3. Delete Expense")
	sh.println("4. Edit Expense")
	sh.println("5. View Summary")
	sh.printf("6. Convert Expenses to %s\n", sh.currency.Target)
	sh.println("7. Exit")
}

func (sh *Shell) add() {
	category, ok := sh.prompt(fmt.Sprintf("Enter expense category (e.g., %s, etc): ", strings.Join(model.DefaultCategories, ", ")))
	if !ok {
		return
	}
	raw, ok := sh.prompt(fmt.Sprintf("Enter the amount in %s: ", sh.currency.Base))
	if !ok {
		return
	}

	amount, err := ledger.ParseAmount(raw)
	if err != nil {
		sh.reportError(err)
		return
	}
	exp, err := sh.store.Add(category, amount)
	if err != nil {
		sh.reportError(err)
		return
	}
	sh.printf("Expense of %s added under category '%s'.\n", sh.base(exp.Amount), exp.Category)
}

func (sh *Shell) view() {
	l := sh.store.List()
	if l.Empty() {
		sh.println("No expenses to display.")
		return
	}
	sh.printListing(l)
}

func (sh *Shell) printListing(l ledger.Listing) {
	sh.println()
	sh.println("--- Expenses ---")
	for _, item := range l.Items {
		sh.printf("%d. %s: %s\n", item.Position, item.Expense.Category, sh.base(item.Expense.Amount))
	}
	sh.println()
	sh.printf("Total Expenses: %s\n", sh.base(l.Total))
}

func (sh *Shell) delete() {
	if sh.store.Len() == 0 {
		sh.println("No expenses to delete.")
		return
	}
	sh.printListing(sh.store.List())

	pos, ok := sh.promptPosition("Enter the number of the expense to delete: ")
	if !ok {
		return
	}
	removed, err := sh.store.Delete(pos)
	if errors.Is(err, ledger.ErrInvalidSelection) {
		sh.println("Invalid number. No expense deleted.")
		return
	}
	if err != nil {
		sh.reportError(err)
		return
	}
	sh.printf("Deleted expense: %s - %s\n", removed.Category, sh.base(removed.Amount))
}

func (sh *Shell) edit() {
	if sh.store.Len() == 0 {
		sh.println("No expenses to edit.")
		return
	}
	l := sh.store.List()
	sh.printListing(l)

	pos, ok := sh.promptPosition("Enter the number of the expense to edit: ")
	if !ok {
		return
	}
	if pos < 1 || pos > len(l.Items) {
		sh.println("Invalid number. No expense edited.")
		return
	}
	current := l.Items[pos-1].Expense

	sh.println("Editing expense:")
	var params ledger.EditParams
	category, ok := sh.prompt(fmt.Sprintf("New category (current: %s): ", current.Category))
	if !ok {
		return
	}
	if category != "" {
		params.Category = &category
	}

	raw, ok := sh.prompt(fmt.Sprintf("New amount (current: %s): ", sh.base(current.Amount)))
	if !ok {
		return
	}
	if strings.TrimSpace(raw) != "" {
		amount, err := ledger.ParseAmount(raw)
		if err != nil {
			sh.println("Invalid amount. Edit canceled.")
			return
		}
		params.Amount = &amount
	}

	if _, err := sh.store.Edit(pos, params); err != nil {
		sh.reportError(err)
		return
	}
	sh.println("Expense updated.")
}

func (sh *Shell) summary() {
	s := sh.store.Summarize()
	if s.Empty() {
		sh.println("No expenses to summarize.")
		return
	}
	sh.println()
	sh.println("--- Expense Summary ---")
	for _, c := range s.Categories {
		sh.printf("%s: %s\n", c.Category, sh.base(c.Amount))
	}
	sh.println()
	sh.printf("Total Expenses: %s\n", sh.base(s.Total))
}

func (sh *Shell) convert() {
	raw, ok := sh.prompt(fmt.Sprintf("Enter the current %s to %s exchange rate: ", sh.currency.Base, sh.currency.Target))
	if !ok {
		return
	}
	rate, err := ledger.ParseRate(raw)
	if err != nil {
		sh.reportError(err)
		return
	}
	c, err := sh.store.ConvertAll(rate)
	if err != nil {
		sh.reportError(err)
		return
	}
	if c.Empty() {
		sh.println("No expenses to convert.")
		return
	}

	sh.println()
	sh.printf("--- Expenses in %s ---\n", sh.currency.Target)
	for _, line := range c.Lines {
		sh.printf("%s: %s\n", line.Expense.Category, sh.target(line.Converted))
	}
	sh.println()
	sh.printf("Total Expenses in %s: %s\n", sh.currency.Target, sh.target(c.Total))
}

// reportError prints a user-facing message for a ledger error.
func (sh *Shell) reportError(err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		sh.println("Invalid amount. Please enter a non-negative number.")
	case errors.Is(err, ledger.ErrInvalidRate):
		sh.println("Invalid exchange rate. Please enter a number greater than zero.")
	case errors.Is(err, ledger.ErrInvalidSelection):
		sh.println("Invalid input. Please enter a number.")
	case errors.Is(err, ledger.ErrEmptyLedger):
		sh.println("No expenses recorded.")
	case errors.Is(err, ledger.ErrStorageUnavailable), errors.Is(err, ledger.ErrStorageCorrupt):
		sh.printf("Could not save expenses, nothing was changed: %v\n", err)
	default:
		sh.printf("Error: %v\n", err)
	}
}

// promptPosition reads a position. Input that is not an integer is reported
// and ok is false.
func (sh *Shell) promptPosition(prompt string) (int, bool) {
	raw, ok := sh.prompt(prompt)
	if !ok {
		return 0, false
	}
	pos, err := ledger.ParsePosition(raw)
	if err != nil {
		sh.reportError(err)
		return 0, false
	}
	return pos, true
}

// prompt writes p and reads one line of any length. ok is false at end of
// input. A final line without a newline is still returned.
func (sh *Shell) prompt(p string) (string, bool) {
	sh.printf("%s", p)
	line, err := sh.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			sh.err = err
			return "", false
		}
		if line == "" {
			return "", false
		}
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (sh *Shell) base(d decimal.Decimal) string {
	return sh.currency.BaseSymbol + d.StringFixed(2)
}

func (sh *Shell) target(d decimal.Decimal) string {
	return sh.currency.TargetSymbol + d.StringFixed(2)
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}

func (sh *Shell) println(args ...any) {
	fmt.Fprintln(sh.out, args...)
}
