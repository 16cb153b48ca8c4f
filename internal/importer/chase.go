package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/model"
)

// ChaseParser parses Chase bank checking CSV exports. Debits become
// expenses categorised by their description; credits are skipped.
type ChaseParser struct{}

const (
	chaseNumFields = 7
	chaseColDesc   = 2
	chaseColAmount = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns its debits as expenses.
func (p *ChaseParser) Parse(r io.Reader) ([]model.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var expenses []model.Expense
	for i, rec := range records[1:] {
		amount, err := decimal.NewFromString(strings.TrimSpace(rec[chaseColAmount]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[chaseColAmount], err)
		}
		if !amount.IsNegative() {
			continue
		}
		expenses = append(expenses, model.Expense{
			Category: chaseCategory(rec[chaseColDesc]),
			Amount:   amount.Neg(),
		})
	}
	return expenses, nil
}

// chaseCategory shortens a bank description to its merchant, e.g.
// "GITHUB *PRO SUBSCRIPTION" -> "GITHUB".
func chaseCategory(desc string) string {
	desc = strings.TrimSpace(desc)
	if i := strings.IndexAny(desc, "*#"); i > 0 {
		desc = desc[:i]
	}
	fields := strings.Fields(desc)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
