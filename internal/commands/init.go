package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/store"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var backendName string
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new spendlog project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.repo
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, backendName, currency)
		},
	}

	cmd.Flags().StringVar(&backendName, "backend", config.BackendSQLite, "store backend (sqlite or memory)")
	cmd.Flags().StringVar(&currency, "currency", "", "default currency for imports without one")

	return cmd
}

func runInit(cmd *cobra.Command, dir, backendName, currency string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	cfg := config.Default()
	cfg.Store.Backend = backendName
	if currency != "" {
		cfg.Import.DefaultCurrency = currency
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		"logs",
		cfg.Import.Dir,
		filepath.Join(cfg.Import.Dir, "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	gitignore := "data/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	ctx := cmd.Context()
	p, err := openProject(ctx, dir, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer p.Close()

	if err := store.Seed(ctx, p.store); err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized spendlog project at %s\n", dir)
	return nil
}
