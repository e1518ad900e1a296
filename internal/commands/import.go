package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spendlog/spendlog/internal/importer"
	"github.com/spendlog/spendlog/internal/importlog"
	"github.com/spendlog/spendlog/internal/log"
	"github.com/spendlog/spendlog/internal/store/memory"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import TSV exports",
		Long: "Import the given TSV exports. Without arguments every .tsv file in the\n" +
			"import directory is imported and then moved to its processed/ subdirectory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts.repo, args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "import into a throwaway copy of the store")

	return cmd
}

func runImport(cmd *cobra.Command, repo string, files []string, dryRun bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	p, err := openProject(ctx, repo, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer p.Close()

	var target importer.Store = p.store
	if dryRun {
		mem, err := memory.Copy(ctx, p.store)
		if err != nil {
			return fmt.Errorf("preparing dry run: %w", err)
		}
		target = mem
	}

	im := importer.New(target,
		importer.WithDefaultCurrency(p.cfg.Import.DefaultCurrency),
		importer.WithLogger(p.logger),
	)

	scanned := len(files) == 0
	paths := files
	if scanned {
		found, err := importer.Scan(p.importDir())
		if err != nil {
			return err
		}
		for _, f := range found {
			paths = append(paths, f.Path)
		}
	}
	if len(paths) == 0 {
		fmt.Fprintln(out, "No files to import")
		return nil
	}

	failed := 0
	for _, path := range paths {
		name := filepath.Base(path)
		logger := p.logger.With(log.FieldFile, name)

		report, err := im.RunFile(ctx, path)
		if err != nil {
			logger.Failure(ctx, "import failed", err)
			fmt.Fprintf(out, "%s: %v\n", name, err)
			failed++
			continue
		}
		printReport(out, name, report)

		if dryRun {
			continue
		}
		entry := importlog.Entry{
			Timestamp: now(),
			File:      name,
			Imported:  report.Imported(),
			Dropped:   report.Dropped,
			Errors:    len(report.Errors),
		}
		if err := importlog.Append(p.dir, []importlog.Entry{entry}); err != nil {
			return fmt.Errorf("recording import: %w", err)
		}
		if scanned {
			if err := importer.MarkProcessed(p.importDir(), name); err != nil {
				return err
			}
		}
	}

	if dryRun {
		fmt.Fprintln(out, "Dry run: nothing was saved")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(paths))
	}
	return nil
}

func printReport(w io.Writer, name string, r *importer.Report) {
	fmt.Fprintf(w, "%s: imported %d, skipped %d, dropped %d, errors %d\n",
		name, r.Imported(), r.Skipped, r.Dropped, len(r.Errors))
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  - %s\n", e.Error())
		if e.Payload != nil {
			fmt.Fprintf(w, "    %s\n", e.Payload.String())
		}
	}
}
