// Package backend opens the configured Store.
package backend

import (
	"context"
	"fmt"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/log"
	"github.com/spendlog/spendlog/internal/store"
	"github.com/spendlog/spendlog/internal/store/memory"
	"github.com/spendlog/spendlog/internal/store/sqlite"
)

// Open returns the store selected by cfg. Relative sqlite paths resolve
// against projectDir. A memory store starts out with the default categories
// and payment methods.
func Open(ctx context.Context, projectDir string, cfg config.StoreConfig, logger *log.Logger) (store.Store, error) {
	if logger == nil {
		logger = log.Nop()
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		path := config.ResolvePath(projectDir, cfg.Path)
		s, err := sqlite.Open(ctx, path, logger)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.InfoContext(ctx, "initialized sqlite backend", log.FieldBackend, cfg.Backend, log.FieldDBPath, path)
		return s, nil
	case config.BackendMemory:
		logger.InfoContext(ctx, "initialized memory backend", log.FieldBackend, cfg.Backend)
		return memory.New(store.DefaultCategories(), store.DefaultPaymentMethods()), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %q", cfg.Backend)
	}
}
