package commands

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendlog/spendlog/internal/importlog"
)

func newHistoryCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past import runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(opts.repo)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			entries, err := importlog.Read(dir)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No imports yet")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "When\tFile\tImported\tDropped\tErrors")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n",
					e.Timestamp.Local().Format(time.DateTime), e.File, e.Imported, e.Dropped, e.Errors)
			}
			return tw.Flush()
		},
	}
}
