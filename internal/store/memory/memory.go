// Package memory is a process-local Store used by tests, dry runs and the
// memory backend.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/spendlog/spendlog/internal/id"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps everything in slices guarded by a mutex.
type Store struct {
	mu       sync.Mutex
	newID    func() string
	cats     []model.Category
	methods  []model.PaymentMethod
	txns     []model.Transaction
	txnIDs   map[string]struct{}
	settings model.UserSettings
}

// Option configures a Store.
type Option func(*Store)

// WithIDs replaces the uuid generator used for new categories and methods.
func WithIDs(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

// New creates a store holding the given category and payment method names.
func New(categories, methods []string, opts ...Option) *Store {
	s := &Store{
		newID:    id.New,
		txnIDs:   make(map[string]struct{}),
		settings: model.UserSettings{Currency: model.DefaultCurrency},
	}
	for _, o := range opts {
		o(s)
	}
	for _, name := range categories {
		if name, err := store.CleanName(name); err == nil {
			s.cats = append(s.cats, model.Category{ID: s.newID(), Name: name})
		}
	}
	for _, name := range methods {
		if name, err := store.CleanName(name); err == nil {
			s.methods = append(s.methods, model.PaymentMethod{ID: s.newID(), Name: name})
		}
	}
	return s
}

// Copy builds a memory store holding a snapshot of src, ids included.
func Copy(ctx context.Context, src store.Store) (*Store, error) {
	cats, err := src.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("copying categories: %w", err)
	}
	methods, err := src.PaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("copying payment methods: %w", err)
	}
	txns, err := src.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("copying transactions: %w", err)
	}
	settings, err := src.UserSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("copying settings: %w", err)
	}

	s := New(nil, nil)
	s.cats = append(s.cats, cats...)
	s.methods = append(s.methods, methods...)
	s.settings = settings
	if err := s.AddTransactions(ctx, txns); err != nil {
		return nil, fmt.Errorf("copying transactions: %w", err)
	}
	return s, nil
}

// Categories returns a copy of the category list.
func (s *Store) Categories(_ context.Context) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Category(nil), s.cats...), nil
}

// PaymentMethods returns a copy of the payment method list.
func (s *Store) PaymentMethods(_ context.Context) ([]model.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.PaymentMethod(nil), s.methods...), nil
}

// Transactions returns a copy of all stored transactions.
func (s *Store) Transactions(_ context.Context) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Transaction(nil), s.txns...), nil
}

// UserSettings returns the current settings.
func (s *Store) UserSettings(_ context.Context) (model.UserSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.settings
	if s.settings.AppIcon != nil {
		icon := *s.settings.AppIcon
		out.AppIcon = &icon
	}
	return out, nil
}

// AddCategory appends a category with a fresh id.
func (s *Store) AddCategory(_ context.Context, name string) (model.Category, error) {
	name, err := store.CleanName(name)
	if err != nil {
		return model.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.Category{ID: s.newID(), Name: name}
	s.cats = append(s.cats, c)
	return c, nil
}

// AddPaymentMethod appends a payment method with a fresh id.
func (s *Store) AddPaymentMethod(_ context.Context, name string) (model.PaymentMethod, error) {
	name, err := store.CleanName(name)
	if err != nil {
		return model.PaymentMethod{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := model.PaymentMethod{ID: s.newID(), Name: name}
	s.methods = append(s.methods, m)
	return m, nil
}

// AddTransactions appends txns. Nothing is stored if any id is already taken.
func (s *Store) AddTransactions(_ context.Context, txns []model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := make(map[string]struct{}, len(txns))
	for _, t := range txns {
		if _, ok := s.txnIDs[t.ID]; ok {
			return fmt.Errorf("%w: %s", store.ErrDuplicateID, t.ID)
		}
		if _, ok := batch[t.ID]; ok {
			return fmt.Errorf("%w: %s", store.ErrDuplicateID, t.ID)
		}
		batch[t.ID] = struct{}{}
	}
	for _, t := range txns {
		s.txnIDs[t.ID] = struct{}{}
		s.txns = append(s.txns, t)
	}
	return nil
}

// UpdateUserSettings replaces name and currency.
func (s *Store) UpdateUserSettings(_ context.Context, settings model.UserSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.Name = settings.Name
	s.settings.Currency = settings.Currency
	return nil
}

// SetAppIcon stores the app icon.
func (s *Store) SetAppIcon(_ context.Context, icon model.AppIcon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.AppIcon = &icon
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
