package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spendlog/spendlog/internal/log"
	"github.com/spendlog/spendlog/internal/report"
	"github.com/spendlog/spendlog/internal/tsv"
	"github.com/spendlog/spendlog/internal/xlsx"
)

// Export formats.
const (
	formatTSV  = "tsv"
	formatXLSX = "xlsx"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var year int
	var format string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one year of transactions",
		Long: "Export one year of transactions together with all categories, payment\n" +
			"methods and settings. The TSV output can be imported again.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("year") {
				year = now().Year()
			}
			return runExport(cmd, opts.repo, year, format, out)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year to export (default current year)")
	cmd.Flags().StringVar(&format, "format", formatTSV, "output format (tsv or xlsx)")
	cmd.Flags().StringVar(&out, "out", "", `output file, "-" for stdout (default a timestamped name in the project directory)`)

	return cmd
}

func runExport(cmd *cobra.Command, repo string, year int, format, out string) error {
	var write func(io.Writer, tsv.Snapshot) error
	var name string
	switch format {
	case formatTSV:
		write, name = tsv.Write, tsv.ExportFileName(year, now())
	case formatXLSX:
		write, name = xlsx.Write, xlsx.ExportFileName(year, now())
	default:
		return fmt.Errorf("unknown format %q (want tsv or xlsx)", format)
	}

	ctx := cmd.Context()
	p, err := openProject(ctx, repo, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer p.Close()

	snap, err := p.snapshot(ctx)
	if err != nil {
		return err
	}
	snap.Transactions = report.FilterYear(snap.Transactions, year)

	if out == "-" {
		return write(cmd.OutOrStdout(), snap)
	}
	if out == "" {
		out = filepath.Join(p.dir, name)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := write(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("exporting: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	p.logger.WithComponent(log.ComponentExport).InfoContext(ctx, "export written",
		log.FieldOperation, log.OpExport, log.FieldYear, year, log.FieldFile, out, log.FieldCount, len(snap.Transactions))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(snap.Transactions), out)
	return nil
}
