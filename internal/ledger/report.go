package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/model"
)

// Item is an expense together with its 1-based position.
type Item struct {
	Position int
	Expense  model.Expense
}

// Listing is the ordered ledger with its grand total.
type Listing struct {
	Items []Item
	Total decimal.Decimal
}

// Empty reports whether there is nothing to display.
func (l Listing) Empty() bool { return len(l.Items) == 0 }

// CategoryTotal is the subtotal of all expenses sharing one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	Count    int
}

// Summary groups expenses by category in first-seen order.
type Summary struct {
	Categories []CategoryTotal
	Total      decimal.Decimal
}

// Empty reports whether there is nothing to summarize.
func (s Summary) Empty() bool { return len(s.Categories) == 0 }

// ConvertedLine is one expense with its amount converted at a rate.
type ConvertedLine struct {
	Expense   model.Expense
	Converted decimal.Decimal
}

// Conversion is a display-only projection of the ledger into another currency.
type Conversion struct {
	Rate  decimal.Decimal
	Lines []ConvertedLine
	Total decimal.Decimal
}

// Empty reports whether there is nothing to convert.
func (c Conversion) Empty() bool { return len(c.Lines) == 0 }

// ListExpenses numbers expenses from 1 and sums them.
func ListExpenses(expenses []model.Expense) Listing {
	l := Listing{Total: decimal.Zero}
	for i, exp := range expenses {
		l.Items = append(l.Items, Item{Position: i + 1, Expense: exp})
		l.Total = l.Total.Add(exp.Amount)
	}
	return l
}

// SummarizeExpenses computes per-category subtotals and the grand total.
func SummarizeExpenses(expenses []model.Expense) Summary {
	s := Summary{Total: decimal.Zero}
	index := make(map[string]int)
	for _, exp := range expenses {
		i, seen := index[exp.Category]
		if !seen {
			i = len(s.Categories)
			index[exp.Category] = i
			s.Categories = append(s.Categories, CategoryTotal{Category: exp.Category, Amount: decimal.Zero})
		}
		s.Categories[i].Amount = s.Categories[i].Amount.Add(exp.Amount)
		s.Categories[i].Count++
		s.Total = s.Total.Add(exp.Amount)
	}
	return s
}

// ConvertExpenses multiplies every amount by rate. The total is the sum of
// the unrounded converted amounts.
func ConvertExpenses(expenses []model.Expense, rate decimal.Decimal) Conversion {
	c := Conversion{Rate: rate, Total: decimal.Zero}
	for _, exp := range expenses {
		converted := exp.Amount.Mul(rate)
		c.Lines = append(c.Lines, ConvertedLine{Expense: exp, Converted: converted})
		c.Total = c.Total.Add(converted)
	}
	return c
}
