// Package store defines the application state container that the importer,
// exporters and views work against.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/tsv"
)

var (
	// ErrEmptyName is returned when adding a category or payment method without a name.
	ErrEmptyName = errors.New("empty name")
	// ErrReservedName is returned for names that collide with an export section header.
	ErrReservedName = errors.New("reserved name")
	// ErrDuplicateID is returned when a transaction id is already stored.
	ErrDuplicateID = errors.New("duplicate transaction id")
)

// Store holds categories, payment methods, transactions and user settings.
// List methods return records in insertion order.
type Store interface {
	Categories(ctx context.Context) ([]model.Category, error)
	PaymentMethods(ctx context.Context) ([]model.PaymentMethod, error)
	Transactions(ctx context.Context) ([]model.Transaction, error)
	UserSettings(ctx context.Context) (model.UserSettings, error)

	AddCategory(ctx context.Context, name string) (model.Category, error)
	AddPaymentMethod(ctx context.Context, name string) (model.PaymentMethod, error)
	AddTransactions(ctx context.Context, txns []model.Transaction) error
	// UpdateUserSettings replaces name and currency; the app icon is untouched.
	UpdateUserSettings(ctx context.Context, settings model.UserSettings) error
	SetAppIcon(ctx context.Context, icon model.AppIcon) error

	Close() error
}

// DefaultCategories seeds a new store.
func DefaultCategories() []string {
	return []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", "Salary", "Other"}
}

// DefaultPaymentMethods seeds a new store.
func DefaultPaymentMethods() []string {
	return []string{"Cash", "Debit Card", "Credit Card", "UPI", "Bank Transfer"}
}

// Seed adds the default categories and payment methods to an empty store.
// Lists that already have entries are left alone.
func Seed(ctx context.Context, s Store) error {
	cats, err := s.Categories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	if len(cats) == 0 {
		for _, name := range DefaultCategories() {
			if _, err := s.AddCategory(ctx, name); err != nil {
				return fmt.Errorf("adding category %s: %w", name, err)
			}
		}
	}

	methods, err := s.PaymentMethods(ctx)
	if err != nil {
		return fmt.Errorf("listing payment methods: %w", err)
	}
	if len(methods) == 0 {
		for _, name := range DefaultPaymentMethods() {
			if _, err := s.AddPaymentMethod(ctx, name); err != nil {
				return fmt.Errorf("adding payment method %s: %w", name, err)
			}
		}
	}
	return nil
}

// CleanName trims a category or payment method name. Empty names and
// section header lines such as "Categories:" are rejected so every stored
// name survives an export round trip.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if tsv.IsSectionHeader(name) {
		return "", fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	return name, nil
}
