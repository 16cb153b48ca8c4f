package model

import "github.com/shopspring/decimal"

// DefaultCategories are offered as examples when prompting for a category.
// Any text is accepted.
var DefaultCategories = []string{"Food", "Travel", "Shopping", "Bill payments"}

// Expense is one entry in the ledger. It has no identifier; its position in
// the ledger is its identity.
type Expense struct {
	Category string
	Amount   decimal.Decimal // non-negative, in the base currency
}

// Equal reports whether two expenses have the same category and amount.
// Amounts compare by value, so 10 and 10.00 are equal.
func (e Expense) Equal(other Expense) bool {
	return e.Category == other.Category && e.Amount.Equal(other.Amount)
}
