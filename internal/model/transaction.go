package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType tells revenue and outgo apart.
type TransactionType string

const (
	TypeRevenue TransactionType = "revenue"
	TypeOutgo   TransactionType = "outgo"
)

// ErrInvalidType is returned for a transaction type other than revenue or outgo.
var ErrInvalidType = errors.New("invalid transaction type")

// ParseTransactionType lower-cases s and checks it names a known type.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeRevenue, TypeOutgo:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Transaction is a single dated monetary movement.
type Transaction struct {
	ID              string
	Date            string // YYYY-MM-DD
	Amount          decimal.Decimal
	Memo            string
	CategoryID      string
	PaymentMethodID string
	Type            TransactionType
}

// DedupKey returns the composite key used to detect already-imported
// transactions: date, canonical amount, lower-cased memo and type.
func (t Transaction) DedupKey() string {
	return DedupKey(t.Date, t.Amount, t.Memo, t.Type)
}

// DedupKey builds the composite key from its parts.
func DedupKey(date string, amount decimal.Decimal, memo string, typ TransactionType) string {
	return fmt.Sprintf("%s-%s-%s-%s", date, amount.String(), strings.ToLower(memo), typ)
}

// Year returns the "YYYY" prefix of the date.
func (t Transaction) Year() string {
	if len(t.Date) < 4 {
		return ""
	}
	return t.Date[:4]
}

// Month returns the "YYYY-MM" prefix of the date.
func (t Transaction) Month() string {
	if len(t.Date) < 7 {
		return ""
	}
	return t.Date[:7]
}
