// Package importer reconciles parsed TSV exports against the store: it adds
// missing categories and payment methods, applies settings and turns raw rows
// into transactions, collecting non-fatal failures as it goes.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/log"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/tsv"
)

var (
	// ErrNoCategories is returned when a row needs a category and the store has none.
	ErrNoCategories = errors.New("store has no categories")
	// ErrNoPaymentMethods is returned when a row needs a payment method and the store has none.
	ErrNoPaymentMethods = errors.New("store has no payment methods")
)

const dateFormat = "2006-01-02"

// Result holds the transactions ready for insertion and the failures met
// while building them.
type Result struct {
	Transactions []model.Transaction
	Errors       []model.ImportError
	Skipped      int // rows whose dedup key was already present
}

// Transform applies data to the store and builds new transactions from its
// rows. Settings, categories, payment methods and transactions are handled
// independently: a failure in one is recorded and the others still run.
// Nothing is rolled back.
func (im *Importer) Transform(ctx context.Context, data tsv.Data) Result {
	var res Result

	if data.UserSettings != nil {
		if err := im.applySettings(ctx, data.UserSettings); err != nil {
			res.Errors = append(res.Errors, model.ImportError{
				Kind:    model.KindSettings,
				Message: "Failed to import some settings",
				Err:     err,
			})
		}
	}

	if err := im.addCategories(ctx, data.Categories); err != nil {
		res.Errors = append(res.Errors, model.ImportError{
			Kind:    model.KindCategory,
			Message: "Failed to import some categories",
			Err:     err,
		})
	}

	if err := im.addPaymentMethods(ctx, data.PaymentMethods); err != nil {
		res.Errors = append(res.Errors, model.ImportError{
			Kind:    model.KindMethod,
			Message: "Failed to import some payment methods",
			Err:     err,
		})
	}

	im.buildTransactions(ctx, data.Transactions, &res)

	for _, e := range res.Errors {
		im.logger.DebugContext(ctx, "import error", log.FieldOperation, log.OpTransform, log.FieldKind, e.Kind, log.FieldError, e.Error())
	}
	return res
}

func (im *Importer) applySettings(ctx context.Context, raw map[string]string) error {
	settings := model.UserSettings{
		Name:     raw[tsv.SettingName],
		Currency: raw[tsv.SettingCurrency],
	}
	if settings.Currency == "" {
		settings.Currency = im.defaultCurrency
	}
	if err := im.store.UpdateUserSettings(ctx, settings); err != nil {
		return fmt.Errorf("updating settings: %w", err)
	}

	emoji := raw[tsv.SettingAppIcon]
	if emoji == "" {
		return nil
	}
	icons, err := im.icons.Render(ctx, emoji)
	if err != nil {
		return fmt.Errorf("rendering app icon: %w", err)
	}
	if err := im.store.SetAppIcon(ctx, icons); err != nil {
		return fmt.Errorf("setting app icon: %w", err)
	}
	return nil
}

func (im *Importer) addCategories(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	existing, err := im.store.Categories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	known := make([]string, len(existing))
	for i, c := range existing {
		known[i] = c.Name
	}
	return addMissing(names, known, func(name string) error {
		_, err := im.store.AddCategory(ctx, name)
		return err
	})
}

func (im *Importer) addPaymentMethods(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	existing, err := im.store.PaymentMethods(ctx)
	if err != nil {
		return fmt.Errorf("listing payment methods: %w", err)
	}
	known := make([]string, len(existing))
	for i, m := range existing {
		known[i] = m.Name
	}
	return addMissing(names, known, func(name string) error {
		_, err := im.store.AddPaymentMethod(ctx, name)
		return err
	})
}

// addMissing calls add for every name not in known, ignoring case. Blank
// names are skipped. Names added earlier in the same batch count as known.
// The first failure stops the batch.
func addMissing(names, known []string, add func(name string) error) error {
	seen := make(map[string]struct{}, len(known)+len(names))
	for _, n := range known {
		seen[nameKey(n)] = struct{}{}
	}
	for _, name := range names {
		key := nameKey(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		if err := add(name); err != nil {
			return fmt.Errorf("adding %q: %w", name, err)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (im *Importer) buildTransactions(ctx context.Context, rows []model.RawTransaction, res *Result) {
	if len(rows) == 0 {
		return
	}

	cats, err := im.store.Categories(ctx)
	if err == nil {
		var methods []model.PaymentMethod
		methods, err = im.store.PaymentMethods(ctx)
		if err == nil {
			var existing []model.Transaction
			existing, err = im.store.Transactions(ctx)
			if err == nil {
				im.reconcile(rows, cats, methods, existing, res)
				return
			}
		}
	}
	res.Errors = append(res.Errors, model.ImportError{
		Kind:    model.KindTransaction,
		Message: "Failed to read existing data",
		Err:     err,
	})
}

func (im *Importer) reconcile(rows []model.RawTransaction, cats []model.Category, methods []model.PaymentMethod, existing []model.Transaction, res *Result) {
	keys := make(map[string]struct{}, len(existing)+len(rows))
	for _, t := range existing {
		keys[t.DedupKey()] = struct{}{}
	}

	for _, raw := range rows {
		if err := im.addTransaction(raw, cats, methods, keys, res); err != nil {
			res.Errors = append(res.Errors, model.ImportError{
				Kind:    model.KindTransaction,
				Message: "Failed to import transaction",
				Payload: raw,
				Err:     err,
			})
		}
	}
}

// addTransaction appends raw to res unless its key is already in keys.
func (im *Importer) addTransaction(raw model.RawTransaction, cats []model.Category, methods []model.PaymentMethod, keys map[string]struct{}, res *Result) error {
	txn, err := parseTransaction(raw)
	if err != nil {
		return err
	}

	key := txn.DedupKey()
	if _, ok := keys[key]; ok {
		res.Skipped++
		return nil
	}

	if txn.CategoryID, err = resolveCategory(cats, raw.Category); err != nil {
		return err
	}
	if txn.PaymentMethodID, err = resolveMethod(methods, raw.Method); err != nil {
		return err
	}

	// Rows repeated within one file collapse into a single transaction.
	keys[key] = struct{}{}
	txn.ID = im.newID()
	res.Transactions = append(res.Transactions, txn)
	return nil
}

// parseTransaction converts the typed fields of raw. References are left unresolved.
func parseTransaction(raw model.RawTransaction) (model.Transaction, error) {
	if _, err := time.Parse(dateFormat, raw.Date); err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", raw.Date, err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(raw.Amount))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", raw.Amount, err)
	}

	typ, err := model.ParseTransactionType(raw.Type)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		Date:   raw.Date,
		Amount: amount,
		Memo:   raw.Memo,
		Type:   typ,
	}, nil
}

// resolveCategory finds name ignoring case, falling back to the first category.
func resolveCategory(cats []model.Category, name string) (string, error) {
	if len(cats) == 0 {
		return "", ErrNoCategories
	}
	name = strings.TrimSpace(name)
	for _, c := range cats {
		if c.NameMatches(name) {
			return c.ID, nil
		}
	}
	return cats[0].ID, nil
}

// resolveMethod finds name ignoring case, falling back to the first method.
func resolveMethod(methods []model.PaymentMethod, name string) (string, error) {
	if len(methods) == 0 {
		return "", ErrNoPaymentMethods
	}
	name = strings.TrimSpace(name)
	for _, m := range methods {
		if m.NameMatches(name) {
			return m.ID, nil
		}
	}
	return methods[0].ID, nil
}

// Transform reconciles data against s using a default Importer with icons.
func Transform(ctx context.Context, s Store, icons IconRenderer, data tsv.Data) Result {
	return New(s, WithIcons(icons)).Transform(ctx, data)
}
