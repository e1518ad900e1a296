package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlog/spendlog/internal/id"
	"github.com/spendlog/spendlog/internal/id/idtest"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/store"
)

func TestNew_SeedsNamesInOrder(t *testing.T) {
	ctx := context.Background()
	s := New([]string{"Food", " ", "Rent"}, []string{"Cash"}, WithIDs(idtest.Sequence("id")))

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{ID: "id-1", Name: "Food"}, {ID: "id-2", Name: "Rent"}}, cats)

	methods, err := s.PaymentMethods(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.PaymentMethod{{ID: "id-3", Name: "Cash"}}, methods)

	settings, err := s.UserSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCurrency, settings.Currency)
}

func TestAddCategoryAndMethod(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)

	c, err := s.AddCategory(ctx, "  Travel ")
	require.NoError(t, err)
	assert.Equal(t, "Travel", c.Name)
	assert.True(t, id.Valid(c.ID))

	_, err = s.AddCategory(ctx, "")
	assert.ErrorIs(t, err, store.ErrEmptyName)

	m, err := s.AddPaymentMethod(ctx, "UPI")
	require.NoError(t, err)
	assert.Equal(t, "UPI", m.Name)

	_, err = s.AddPaymentMethod(ctx, "\t")
	assert.ErrorIs(t, err, store.ErrEmptyName)
}

func TestListsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New([]string{"Food"}, nil)

	cats, _ := s.Categories(ctx)
	cats[0].Name = "Changed"

	again, _ := s.Categories(ctx)
	assert.Equal(t, "Food", again[0].Name)
}

func TestAddTransactions(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)

	txns := []model.Transaction{
		{ID: "a", Date: "2024-01-01", Amount: decimal.NewFromInt(5), Type: model.TypeOutgo},
		{ID: "b", Date: "2024-01-02", Amount: decimal.NewFromInt(7), Type: model.TypeRevenue},
	}
	require.NoError(t, s.AddTransactions(ctx, txns))

	got, err := s.Transactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, txns, got)

	err = s.AddTransactions(ctx, []model.Transaction{{ID: "c"}, {ID: "a"}})
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	err = s.AddTransactions(ctx, []model.Transaction{{ID: "d"}, {ID: "d"}})
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	got, _ = s.Transactions(ctx)
	assert.Len(t, got, 2, "failed batches must not be partially stored")
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)

	require.NoError(t, s.SetAppIcon(ctx, model.AppIcon{Emoji: "💰", Favicon: "data:x"}))
	require.NoError(t, s.UpdateUserSettings(ctx, model.UserSettings{Name: "Alice", Currency: "USD"}))

	got, err := s.UserSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "USD", got.Currency)
	require.NotNil(t, got.AppIcon, "updating settings keeps the icon")
	assert.Equal(t, "💰", got.AppIcon.Emoji)

	got.AppIcon.Emoji = "x"
	again, _ := s.UserSettings(ctx)
	assert.Equal(t, "💰", again.AppIcon.Emoji)
}

func TestCopy(t *testing.T) {
	ctx := context.Background()
	src := New([]string{"Food"}, []string{"Cash"})
	require.NoError(t, src.AddTransactions(ctx, []model.Transaction{{ID: "t1", Date: "2024-01-01"}}))
	require.NoError(t, src.UpdateUserSettings(ctx, model.UserSettings{Name: "Alice", Currency: "USD"}))

	dst, err := Copy(ctx, src)
	require.NoError(t, err)

	srcCats, _ := src.Categories(ctx)
	dstCats, _ := dst.Categories(ctx)
	assert.Equal(t, srcCats, dstCats)

	_, err = dst.AddCategory(ctx, "Rent")
	require.NoError(t, err)
	srcCats, _ = src.Categories(ctx)
	assert.Len(t, srcCats, 1, "copy must not write through to the source")

	settings, _ := dst.UserSettings(ctx)
	assert.Equal(t, "Alice", settings.Name)
	txns, _ := dst.Transactions(ctx)
	assert.Len(t, txns, 1)
}
