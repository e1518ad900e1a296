package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/tsv"
)

func snapshot() tsv.Snapshot {
	return tsv.Snapshot{
		Transactions: []model.Transaction{
			{ID: "t1", Date: "2024-01-05", Amount: decimal.RequireFromString("250.5"), Memo: "Groceries", CategoryID: "c1", PaymentMethodID: "m1", Type: model.TypeOutgo},
		},
		Categories:     []model.Category{{ID: "c1", Name: "Food"}, {ID: "c2", Name: "Rent"}},
		PaymentMethods: []model.PaymentMethod{{ID: "m1", Name: "Cash"}},
		Settings:       model.UserSettings{Name: "Alice", Currency: "USD", AppIcon: &model.AppIcon{Emoji: "💰"}},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, snapshot()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetTransactions, SheetCategories, SheetPaymentMethods, SheetUserSettings}, f.GetSheetList())

	rows, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, tsv.ColumnHeader, rows[0])
	assert.Equal(t, []string{"2024-01-05", "250.5", "Groceries", "Food", "Cash", "outgo"}, rows[1])

	rows, err = f.GetRows(SheetCategories)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Food"}, {"Rent"}}, rows)

	rows, err = f.GetRows(SheetPaymentMethods)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Cash"}}, rows)

	rows, err = f.GetRows(SheetUserSettings)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Alice"}, {"Currency", "USD"}, {"App Icon", "💰"}}, rows)
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tsv.Snapshot{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetTransactions)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "spendlog-2024-20261014-153000.xlsx", ExportFileName(2024, now))
}
