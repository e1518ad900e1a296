package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spendlog/spendlog/internal/model"
)

// SortBy orders search results.
type SortBy string

const (
	SortByDate   SortBy = "date"
	SortByAmount SortBy = "amount"
)

// ParseSortBy validates s. Empty means SortByDate.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByDate:
		return SortByDate, nil
	case SortByAmount:
		return SortByAmount, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want date or amount)", s)
}

// Query filters transactions. Zero fields match everything.
type Query struct {
	Text            string // case-insensitive memo substring
	CategoryID      string
	PaymentMethodID string
	Type            model.TransactionType
}

// Matches reports whether t satisfies every set field of q.
func (q Query) Matches(t model.Transaction) bool {
	if q.Text != "" && !strings.Contains(strings.ToLower(t.Memo), strings.ToLower(q.Text)) {
		return false
	}
	if q.CategoryID != "" && t.CategoryID != q.CategoryID {
		return false
	}
	if q.PaymentMethodID != "" && t.PaymentMethodID != q.PaymentMethodID {
		return false
	}
	if q.Type != "" && t.Type != q.Type {
		return false
	}
	return true
}

// Search returns the transactions matching q, newest or largest first.
// Ties keep input order.
func Search(txns []model.Transaction, q Query, by SortBy) []model.Transaction {
	out := filter(txns, q.Matches)
	switch by {
	case SortByAmount:
		slices.SortStableFunc(out, func(a, b model.Transaction) int { return b.Amount.Cmp(a.Amount) })
	default:
		slices.SortStableFunc(out, func(a, b model.Transaction) int { return strings.Compare(b.Date, a.Date) })
	}
	return out
}
