// Package commands implements the spendlog CLI.
package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/spendlog/spendlog/internal/buildinfo"
)

// now is the clock used for default months, years and export names.
var now = time.Now

// globalOptions holds flags shared by every subcommand.
type globalOptions struct {
	repo string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "spendlog",
		Short:   "Personal income and expense tracking",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "project directory")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newImportCommand(opts),
		newExportCommand(opts),
		newMonthCommand(opts),
		newYearCommand(opts),
		newHistoryCommand(opts),
	)

	return rootCmd
}
