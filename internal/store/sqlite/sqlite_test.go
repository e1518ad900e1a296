package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/store"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "spendlog.db")
	s, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpen_FreshDatabase(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	settings, err := s.UserSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", settings.Name)
	assert.Equal(t, model.DefaultCurrency, settings.Currency)
	assert.Nil(t, settings.AppIcon)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)

	_, err := s.AddCategory(ctx, "Food")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	again, err := Open(ctx, path, nil)
	require.NoError(t, err)
	defer again.Close()

	cats, err := again.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Food", cats[0].Name)
}

func TestCategoriesAndMethodsKeepOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	for _, name := range []string{"Rent", "Food", "Bills"} {
		_, err := s.AddCategory(ctx, name)
		require.NoError(t, err)
	}
	for _, name := range []string{"UPI", "Cash"} {
		_, err := s.AddPaymentMethod(ctx, name)
		require.NoError(t, err)
	}

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Rent", cats[0].Name)
	assert.Equal(t, "Bills", cats[2].Name)

	methods, err := s.PaymentMethods(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, "UPI", methods[0].Name)

	_, err = s.AddCategory(ctx, " ")
	assert.ErrorIs(t, err, store.ErrEmptyName)
}

func TestAddTransactions(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	txns := []model.Transaction{
		{ID: "t1", Date: "2024-01-05", Amount: decimal.RequireFromString("250.50"), Memo: "Groceries", CategoryID: "c1", PaymentMethodID: "m1", Type: model.TypeOutgo},
		{ID: "t2", Date: "2024-01-31", Amount: decimal.RequireFromString("5000"), Memo: "Salary", CategoryID: "c2", PaymentMethodID: "m2", Type: model.TypeRevenue},
	}
	require.NoError(t, s.AddTransactions(ctx, txns))
	require.NoError(t, s.AddTransactions(ctx, nil))

	got, err := s.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.True(t, txns[0].Amount.Equal(got[0].Amount))
	assert.Equal(t, model.TypeOutgo, got[0].Type)
	assert.Equal(t, "Salary", got[1].Memo)
	assert.Equal(t, txns[1].DedupKey(), got[1].DedupKey())
}

func TestAddTransactions_DuplicateRollsBack(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	require.NoError(t, s.AddTransactions(ctx, []model.Transaction{
		{ID: "t1", Date: "2024-01-01", Amount: decimal.NewFromInt(1), Type: model.TypeOutgo},
	}))

	err := s.AddTransactions(ctx, []model.Transaction{
		{ID: "t2", Date: "2024-01-02", Amount: decimal.NewFromInt(2), Type: model.TypeOutgo},
		{ID: "t1", Date: "2024-01-03", Amount: decimal.NewFromInt(3), Type: model.TypeOutgo},
	})
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	got, err := s.Transactions(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAddTransactions_RejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	err := s.AddTransactions(ctx, []model.Transaction{
		{ID: "t1", Date: "2024-01-01", Amount: decimal.NewFromInt(1), Type: "refund"},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrDuplicateID)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	icon := model.AppIcon{Emoji: "💰", Favicon: "data:image/svg+xml;base64,AAA"}
	require.NoError(t, s.SetAppIcon(ctx, icon))
	require.NoError(t, s.UpdateUserSettings(ctx, model.UserSettings{Name: "Alice", Currency: "USD"}))

	got, err := s.UserSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "USD", got.Currency)
	require.NotNil(t, got.AppIcon)
	assert.Equal(t, icon, *got.AppIcon)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	require.NoError(t, store.Seed(ctx, s))
	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(store.DefaultCategories()))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	_, path := openTemp(t)
	version, err := RunMigrations(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestOpen_RefusesDirtySchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spendlog.db")
	s, err := Open(ctx, path, nil)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, "UPDATE schema_migrations SET dirty = 1")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, path, nil)
	require.ErrorIs(t, err, ErrDirtySchema)
	assert.Contains(t, err.Error(), "version 1")
}
