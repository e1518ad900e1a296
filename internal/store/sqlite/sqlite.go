// Package sqlite is the persistent Store, backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/spendlog/spendlog/internal/id"
	"github.com/spendlog/spendlog/internal/log"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store persists state in a single sqlite database file.
type Store struct {
	db     *sql.DB
	newID  func() string
	logger *log.Logger
}

// Open creates (if needed) and migrates the database at dbPath.
func Open(ctx context.Context, dbPath string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite allows one writer; a single connection keeps writes serialized.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(ctx, dbPath, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.DebugContext(ctx, "database ready", log.FieldDBPath, dbPath, "schema_version", version)

	return &Store{db: db, newID: id.New, logger: logger}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Categories lists categories in insertion order.
func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PaymentMethods lists payment methods in insertion order.
func (s *Store) PaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM payment_methods ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query payment methods: %w", err)
	}
	defer rows.Close()

	var out []model.PaymentMethod
	for rows.Next() {
		var m model.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Transactions lists all transactions in insertion order.
func (s *Store) Transactions(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, amount, memo, category_id, payment_method_id, type
		FROM transactions
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		var (
			t      model.Transaction
			amount string
			typ    string
		)
		if err := rows.Scan(&t.ID, &t.Date, &amount, &t.Memo, &t.CategoryID, &t.PaymentMethodID, &typ); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing amount %q of transaction %s: %w", amount, t.ID, err)
		}
		t.Type = model.TransactionType(typ)
		out = append(out, t)
	}
	return out, rows.Err()
}

// UserSettings reads the single settings row.
func (s *Store) UserSettings(ctx context.Context) (model.UserSettings, error) {
	var (
		settings model.UserSettings
		icon     sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `SELECT name, currency, app_icon FROM user_settings WHERE id = 1`).
		Scan(&settings.Name, &settings.Currency, &icon)
	if err != nil {
		return model.UserSettings{}, fmt.Errorf("query user settings: %w", err)
	}
	if icon.Valid && icon.String != "" {
		var ai model.AppIcon
		if err := json.Unmarshal([]byte(icon.String), &ai); err != nil {
			return model.UserSettings{}, fmt.Errorf("decoding app icon: %w", err)
		}
		settings.AppIcon = &ai
	}
	return settings, nil
}

// AddCategory inserts a category with a fresh id.
func (s *Store) AddCategory(ctx context.Context, name string) (model.Category, error) {
	name, err := store.CleanName(name)
	if err != nil {
		return model.Category{}, err
	}
	c := model.Category{ID: s.newID(), Name: name}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES (?, ?)`, c.ID, c.Name); err != nil {
		return model.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// AddPaymentMethod inserts a payment method with a fresh id.
func (s *Store) AddPaymentMethod(ctx context.Context, name string) (model.PaymentMethod, error) {
	name, err := store.CleanName(name)
	if err != nil {
		return model.PaymentMethod{}, err
	}
	m := model.PaymentMethod{ID: s.newID(), Name: name}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO payment_methods (id, name) VALUES (?, ?)`, m.ID, m.Name); err != nil {
		return model.PaymentMethod{}, fmt.Errorf("insert payment method: %w", err)
	}
	return m, nil
}

// AddTransactions inserts txns in one database transaction.
func (s *Store) AddTransactions(ctx context.Context, txns []model.Transaction) (err error) {
	if len(txns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, date, amount, memo, category_id, payment_method_id, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		_, err = stmt.ExecContext(ctx, t.ID, t.Date, t.Amount.String(), t.Memo, t.CategoryID, t.PaymentMethodID, string(t.Type))
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return fmt.Errorf("%w: %s", store.ErrDuplicateID, t.ID)
			}
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.DebugContext(ctx, "transactions stored", log.FieldOperation, log.OpInsert, log.FieldCount, len(txns))
	return nil
}

// UpdateUserSettings replaces name and currency.
func (s *Store) UpdateUserSettings(ctx context.Context, settings model.UserSettings) error {
	_, err := s.db.ExecContext(ctx, `UPDATE user_settings SET name = ?, currency = ? WHERE id = 1`, settings.Name, settings.Currency)
	if err != nil {
		return fmt.Errorf("update user settings: %w", err)
	}
	return nil
}

// SetAppIcon stores the icon as JSON.
func (s *Store) SetAppIcon(ctx context.Context, icon model.AppIcon) error {
	data, err := json.Marshal(icon)
	if err != nil {
		return fmt.Errorf("encoding app icon: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE user_settings SET app_icon = ? WHERE id = 1`, string(data)); err != nil {
		return fmt.Errorf("update app icon: %w", err)
	}
	return nil
}
