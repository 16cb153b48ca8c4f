package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/expenses/internal/model"
)

// indent matches the layout of ledger files written by earlier tools.
const indent = "    "

// record is the on-disk shape of one expense. Amounts are bare JSON numbers.
type record struct {
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
}

// ReadExpenses decodes a JSON array of expenses. A literal null decodes to an
// empty ledger.
func ReadExpenses(r io.Reader) ([]model.Expense, error) {
	dec := json.NewDecoder(r)

	var records []record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding ledger JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decoding ledger JSON: trailing data after array")
	}

	expenses := make([]model.Expense, 0, len(records))
	for i, rec := range records {
		exp, err := unmarshalExpense(rec)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		expenses = append(expenses, exp)
	}
	return expenses, nil
}

// WriteExpenses encodes expenses as a pretty-printed JSON array. An empty
// ledger is written as [].
func WriteExpenses(w io.Writer, expenses []model.Expense) error {
	records := make([]record, len(expenses))
	for i, exp := range expenses {
		records[i] = marshalExpense(exp)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding ledger JSON: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing ledger JSON: %w", err)
	}
	return nil
}

// marshalExpense converts an Expense to its on-disk record.
func marshalExpense(exp model.Expense) record {
	return record{
		Category: exp.Category,
		Amount:   json.RawMessage(exp.Amount.String()),
	}
}

// unmarshalExpense converts an on-disk record to an Expense.
func unmarshalExpense(rec record) (model.Expense, error) {
	raw := string(rec.Amount)
	if raw == "" || raw == "null" {
		return model.Expense{}, fmt.Errorf("missing amount")
	}
	if raw[0] == '"' {
		return model.Expense{}, fmt.Errorf("amount %s must be a number, not a string", raw)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.Expense{}, fmt.Errorf("parsing amount %s: %w", raw, err)
	}
	if err := checkAmount(amount); err != nil {
		return model.Expense{}, err
	}
	return model.Expense{Category: rec.Category, Amount: amount}, nil
}
