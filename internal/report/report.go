// Package report derives the monthly and yearly views from a transaction list.
// Dates are compared as YYYY-MM-DD strings; no calendar math is done.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/model"
)

// UnknownName labels transactions whose category or method no longer exists.
const UnknownName = "Unknown"

// Totals sums revenue and expenses. Balance is Revenue minus Expenses.
type Totals struct {
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
	Balance  decimal.Decimal
}

func (t *Totals) add(txn model.Transaction) {
	if txn.Type == model.TypeRevenue {
		t.Revenue = t.Revenue.Add(txn.Amount)
	} else {
		t.Expenses = t.Expenses.Add(txn.Amount)
	}
	t.Balance = t.Revenue.Sub(t.Expenses)
}

// Summarize totals txns.
func Summarize(txns []model.Transaction) Totals {
	var t Totals
	for _, txn := range txns {
		t.add(txn)
	}
	return t
}

// FilterMonth returns the transactions dated in year-month.
func FilterMonth(txns []model.Transaction, year, month int) []model.Transaction {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	return filter(txns, func(t model.Transaction) bool { return t.Month() == prefix })
}

// FilterYear returns the transactions dated in year.
func FilterYear(txns []model.Transaction, year int) []model.Transaction {
	prefix := fmt.Sprintf("%04d", year)
	return filter(txns, func(t model.Transaction) bool { return t.Year() == prefix })
}

func filter(txns []model.Transaction, keep func(model.Transaction) bool) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// DateGroup is the transactions of one day.
type DateGroup struct {
	Date         string
	Transactions []model.Transaction
	Totals       Totals
}

// GroupByDate groups txns per day, newest day first. Input order is kept
// inside a group.
func GroupByDate(txns []model.Transaction) []DateGroup {
	index := make(map[string]int)
	var groups []DateGroup
	for _, t := range txns {
		i, ok := index[t.Date]
		if !ok {
			i = len(groups)
			index[t.Date] = i
			groups = append(groups, DateGroup{Date: t.Date})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
		groups[i].Totals.add(t)
	}
	slices.SortFunc(groups, func(a, b DateGroup) int { return strings.Compare(b.Date, a.Date) })
	return groups
}

// MonthSummary is the totals of one YYYY-MM month.
type MonthSummary struct {
	Month  string
	Count  int
	Totals Totals
}

// MonthlyBreakdown returns one summary per month that has transactions,
// newest first.
func MonthlyBreakdown(txns []model.Transaction) []MonthSummary {
	index := make(map[string]int)
	var months []MonthSummary
	for _, t := range txns {
		key := t.Month()
		i, ok := index[key]
		if !ok {
			i = len(months)
			index[key] = i
			months = append(months, MonthSummary{Month: key})
		}
		months[i].Count++
		months[i].Totals.add(t)
	}
	slices.SortFunc(months, func(a, b MonthSummary) int { return strings.Compare(b.Month, a.Month) })
	return months
}

// Breakdown is the totals attributed to one category or payment method.
type Breakdown struct {
	ID     string
	Name   string
	Count  int
	Totals Totals
}

// Volume is revenue plus expenses, the figure breakdowns are ranked by.
func (b Breakdown) Volume() decimal.Decimal {
	return b.Totals.Revenue.Add(b.Totals.Expenses)
}

// ByCategory totals txns per referenced category, largest volume first.
func ByCategory(txns []model.Transaction, cats []model.Category) []Breakdown {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return breakdown(txns, names, func(t model.Transaction) string { return t.CategoryID })
}

// ByPaymentMethod totals txns per referenced payment method, largest volume first.
func ByPaymentMethod(txns []model.Transaction, methods []model.PaymentMethod) []Breakdown {
	names := make(map[string]string, len(methods))
	for _, m := range methods {
		names[m.ID] = m.Name
	}
	return breakdown(txns, names, func(t model.Transaction) string { return t.PaymentMethodID })
}

func breakdown(txns []model.Transaction, names map[string]string, ref func(model.Transaction) string) []Breakdown {
	index := make(map[string]int)
	var out []Breakdown
	for _, t := range txns {
		key := ref(t)
		i, ok := index[key]
		if !ok {
			name, known := names[key]
			if !known {
				name = UnknownName
			}
			i = len(out)
			index[key] = i
			out = append(out, Breakdown{ID: key, Name: name})
		}
		out[i].Count++
		out[i].Totals.add(t)
	}
	slices.SortStableFunc(out, func(a, b Breakdown) int {
		if c := b.Volume().Cmp(a.Volume()); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
