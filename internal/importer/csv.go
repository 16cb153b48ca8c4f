package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/expenses/internal/ledger"
	"github.com/cleared-dev/expenses/internal/model"
)

// LedgerCSVParser reads a two-column "category,amount" CSV with a header row.
type LedgerCSVParser struct{}

const (
	ledgerNumFields = 2
	ledgerColCat    = 0
	ledgerColAmount = 1
)

// Format returns the parser name.
func (p *LedgerCSVParser) Format() string { return "csv" }

// Parse reads the CSV and returns expenses in file order.
func (p *LedgerCSVParser) Parse(r io.Reader) ([]model.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = ledgerNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	header := records[0]
	if !strings.EqualFold(header[ledgerColCat], "category") || !strings.EqualFold(header[ledgerColAmount], "amount") {
		return nil, fmt.Errorf("expected header category,amount, got %s", strings.Join(header, ","))
	}

	var expenses []model.Expense
	for i, rec := range records[1:] {
		amount, err := ledger.ParseAmount(rec[ledgerColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		expenses = append(expenses, model.Expense{Category: rec[ledgerColCat], Amount: amount})
	}
	return expenses, nil
}
