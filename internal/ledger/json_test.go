package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/expenses/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func exp(category, amount string) model.Expense {
	return model.Expense{Category: category, Amount: dec(amount)}
}

func TestWriteExpenses_Format(t *testing.T) {
	var buf bytes.Buffer
	err := WriteExpenses(&buf, []model.Expense{exp("Food", "10"), exp("Bills & Rent", "12.5")})
	require.NoError(t, err)

	want := `[
    {
        "category": "Food",
        "amount": 10
    },
    {
        "category": "Bills & Rent",
        "amount": 12.5
    }
]
`
	assert.Equal(t, want, buf.String())
}

func TestWriteExpenses_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExpenses(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestReadExpenses_FloatFile(t *testing.T) {
	// Files written with float amounts, e.g. 10.0, load by value.
	data := `[
    {
        "category": "Food",
        "amount": 10.0
    },
    {
        "category": "Travel",
        "amount": 5.25
    }
]`
	got, err := ReadExpenses(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(exp("Food", "10")))
	assert.True(t, got[1].Equal(exp("Travel", "5.25")))
}

func TestReadExpenses_Null(t *testing.T) {
	got, err := ReadExpenses(strings.NewReader("null"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadExpenses_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"truncated", `[{"category": "Food", "amount": 1`},
		{"object", `{"category": "Food", "amount": 1}`},
		{"string category", `[{"category": 5, "amount": 1}]`},
		{"missing amount", `[{"category": "Food"}]`},
		{"bool amount", `[{"category": "Food", "amount": true}]`},
		{"trailing data", `[] []`},
		{"null amount", `[{"category": "Food", "amount": null}]`},
		{"negative amount", `[{"category": "Food", "amount": -5}]`},
		{"quoted amount", `[{"category": "Food", "amount": "10"}]`},
		{"huge exponent", `[{"category": "Food", "amount": 1e2000000000}]`},
		{"tiny exponent", `[{"category": "Food", "amount": 1e-2000000000}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadExpenses(strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	expenses := []model.Expense{
		exp("Food", "10"),
		exp("", "0"),
		exp("Travel", "1234.5678"),
		exp("Café ☕", "3.10"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExpenses(&buf, expenses))

	got, err := ReadExpenses(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(expenses))
	for i := range expenses {
		assert.Equal(t, expenses[i].Category, got[i].Category)
		assert.True(t, expenses[i].Amount.Equal(got[i].Amount), "amount %d: %s != %s", i, expenses[i].Amount, got[i].Amount)
	}
}
