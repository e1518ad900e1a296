package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spendlog/spendlog/internal/backend"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/log"
	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/store"
	"github.com/spendlog/spendlog/internal/tsv"
)

// project is an opened spendlog directory.
type project struct {
	dir    string
	cfg    *config.Config
	logger *log.Logger
	store  store.Store
}

// openProject loads the configuration in dir and opens its store. Logs go to
// logOut.
func openProject(ctx context.Context, dir string, logOut io.Writer) (*project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadProject(absDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.New(log.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Component: log.ComponentCLI,
		Output:    logOut,
	})

	s, err := backend.Open(ctx, absDir, cfg.Store, logger.WithComponent(log.ComponentStorage))
	if err != nil {
		return nil, err
	}

	return &project{dir: absDir, cfg: cfg, logger: logger, store: s}, nil
}

func (p *project) Close() error {
	return p.store.Close()
}

// importDir returns the absolute import directory.
func (p *project) importDir() string {
	return config.ResolvePath(p.dir, p.cfg.Import.Dir)
}

// snapshot reads everything in the store.
func (p *project) snapshot(ctx context.Context) (tsv.Snapshot, error) {
	var snap tsv.Snapshot
	var err error
	if snap.Transactions, err = p.store.Transactions(ctx); err != nil {
		return snap, fmt.Errorf("listing transactions: %w", err)
	}
	if snap.Categories, err = p.store.Categories(ctx); err != nil {
		return snap, fmt.Errorf("listing categories: %w", err)
	}
	if snap.PaymentMethods, err = p.store.PaymentMethods(ctx); err != nil {
		return snap, fmt.Errorf("listing payment methods: %w", err)
	}
	if snap.Settings, err = p.store.UserSettings(ctx); err != nil {
		return snap, fmt.Errorf("reading settings: %w", err)
	}
	return snap, nil
}

func findCategory(cats []model.Category, name string) (string, error) {
	for _, c := range cats {
		if c.NameMatches(strings.TrimSpace(name)) {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

func findPaymentMethod(methods []model.PaymentMethod, name string) (string, error) {
	for _, m := range methods {
		if m.NameMatches(strings.TrimSpace(name)) {
			return m.ID, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", name)
}
