package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

const chaseSample = chaseHeader +
	"DEBIT,01/03/2025,GITHUB *PRO SUBSCRIPTION,-4.00,ACH_DEBIT,9996.00,\n" +
	"DEBIT,01/05/2025,UBER   TRIP 8841,-23.17,DEBIT_CARD,9972.83,\n" +
	"CREDIT,01/10/2025,ACME CONSULTING INVOICE 1042,3500.00,ACH_CREDIT,13472.83,\n" +
	"DEBIT,01/22/2025,USPS PO 1234,-12.40,DEBIT_CARD,13460.43,\n"

func TestChaseParser_Parse(t *testing.T) {
	p := &ChaseParser{}
	expenses, err := p.Parse(strings.NewReader(chaseSample))
	require.NoError(t, err)
	require.Len(t, expenses, 3, "credits are skipped")

	assert.Equal(t, "GITHUB", expenses[0].Category)
	assert.Equal(t, "4.00", expenses[0].Amount.StringFixed(2))
	assert.Equal(t, "UBER", expenses[1].Category)
	assert.Equal(t, "23.17", expenses[1].Amount.StringFixed(2))
	assert.Equal(t, "USPS", expenses[2].Category)
}

func TestChaseParser_EmptyFile(t *testing.T) {
	p := &ChaseParser{}
	expenses, err := p.Parse(strings.NewReader(chaseHeader))
	require.NoError(t, err)
	assert.Nil(t, expenses)
}

func TestChaseParser_BadAmount(t *testing.T) {
	csv := chaseHeader + "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n"
	p := &ChaseParser{}
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestChaseCategory(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"GITHUB *PRO SUBSCRIPTION", "GITHUB"},
		{"  AMAZON MKTPL#123 ", "AMAZON"},
		{"USPS", "USPS"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chaseCategory(tt.in), "chaseCategory(%q)", tt.in)
	}
}

func TestLedgerCSVParser_Parse(t *testing.T) {
	p := &LedgerCSVParser{}
	expenses, err := p.Parse(strings.NewReader("category,amount\nFood, 10\nTravel,5.50\n,0\n"))
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, "Food", expenses[0].Category)
	assert.Equal(t, "10.00", expenses[0].Amount.StringFixed(2))
	assert.Equal(t, "", expenses[2].Category)
}

func TestLedgerCSVParser_Errors(t *testing.T) {
	p := &LedgerCSVParser{}

	_, err := p.Parse(strings.NewReader("name,value\nFood,1\n"))
	assert.ErrorContains(t, err, "expected header")

	_, err = p.Parse(strings.NewReader("category,amount\nFood,-1\n"))
	assert.ErrorContains(t, err, "row 2")

	_, err = p.Parse(strings.NewReader("category,amount\nFood\n"))
	assert.Error(t, err)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	p := r.Get("CHASE")
	require.NotNil(t, p)
	assert.Equal(t, "chase", p.Format())
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })
}

func TestDefaultRegistry(t *testing.T) {
	assert.Equal(t, []string{"chase", "csv"}, DefaultRegistry().Formats())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(chaseSample), 0o644))

	r := DefaultRegistry()
	expenses, err := r.ParseFile(path, "chase")
	require.NoError(t, err)
	assert.Len(t, expenses, 3)

	_, err = r.ParseFile(path, "ofx")
	assert.ErrorContains(t, err, "unknown import format")

	_, err = r.ParseFile(filepath.Join(t.TempDir(), "missing.csv"), "csv")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
