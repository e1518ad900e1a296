package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlog/spendlog/internal/model"
)

func txn(id, date, amount, memo, cat, method string, typ model.TransactionType) model.Transaction {
	return model.Transaction{
		ID:              id,
		Date:            date,
		Amount:          decimal.RequireFromString(amount),
		Memo:            memo,
		CategoryID:      cat,
		PaymentMethodID: method,
		Type:            typ,
	}
}

func fixture() []model.Transaction {
	return []model.Transaction{
		txn("1", "2024-01-05", "1000", "Salary", "c-salary", "m-bank", model.TypeRevenue),
		txn("2", "2024-01-05", "250.50", "Groceries", "c-food", "m-cash", model.TypeOutgo),
		txn("3", "2024-01-20", "40", "Bus pass", "c-transport", "m-card", model.TypeOutgo),
		txn("4", "2024-02-02", "12", "Coffee beans", "c-food", "m-cash", model.TypeOutgo),
		txn("5", "2023-12-31", "99", "Gift", "c-gone", "m-card", model.TypeOutgo),
	}
}

func ids(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func TestFilterMonthAndYear(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, ids(FilterMonth(fixture(), 2024, 1)))
	assert.Equal(t, []string{"4"}, ids(FilterMonth(fixture(), 2024, 2)))
	assert.Empty(t, FilterMonth(fixture(), 2024, 3))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(FilterYear(fixture(), 2024)))
	assert.Equal(t, []string{"5"}, ids(FilterYear(fixture(), 2023)))
}

func TestSummarize(t *testing.T) {
	tot := Summarize(fixture())
	assert.Equal(t, "1000", tot.Revenue.String())
	assert.Equal(t, "401.5", tot.Expenses.String())
	assert.Equal(t, "598.5", tot.Balance.String())

	empty := Summarize(nil)
	assert.True(t, empty.Balance.IsZero())
}

func TestGroupByDate(t *testing.T) {
	groups := GroupByDate(fixture())
	require.Len(t, groups, 4)
	assert.Equal(t, "2024-02-02", groups[0].Date)
	assert.Equal(t, "2023-12-31", groups[3].Date)

	jan5 := groups[2]
	assert.Equal(t, "2024-01-05", jan5.Date)
	assert.Equal(t, []string{"1", "2"}, ids(jan5.Transactions))
	assert.Equal(t, "749.5", jan5.Totals.Balance.String())
}

func TestMonthlyBreakdown(t *testing.T) {
	months := MonthlyBreakdown(fixture())
	require.Len(t, months, 3)
	assert.Equal(t, "2024-02", months[0].Month)
	assert.Equal(t, "2024-01", months[1].Month)
	assert.Equal(t, "2023-12", months[2].Month)

	assert.Equal(t, 3, months[1].Count)
	assert.Equal(t, "1000", months[1].Totals.Revenue.String())
	assert.Equal(t, "290.5", months[1].Totals.Expenses.String())
}

func TestByCategory(t *testing.T) {
	cats := []model.Category{
		{ID: "c-food", Name: "Food"},
		{ID: "c-transport", Name: "Transport"},
		{ID: "c-salary", Name: "Salary"},
	}
	got := ByCategory(fixture(), cats)
	require.Len(t, got, 4)

	names := make([]string, len(got))
	for i, b := range got {
		names[i] = b.Name
	}
	assert.Equal(t, []string{"Salary", "Food", "Unknown", "Transport"}, names)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, "262.5", got[1].Totals.Expenses.String())
}

func TestByPaymentMethod(t *testing.T) {
	methods := []model.PaymentMethod{
		{ID: "m-cash", Name: "Cash"},
		{ID: "m-card", Name: "Card"},
		{ID: "m-bank", Name: "Bank"},
	}
	got := ByPaymentMethod(fixture(), methods)
	require.Len(t, got, 3)
	assert.Equal(t, "Bank", got[0].Name)
	assert.Equal(t, "Cash", got[1].Name)
	assert.Equal(t, "Card", got[2].Name)
	assert.Equal(t, "139", got[2].Volume().String())
}
