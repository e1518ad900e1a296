package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spendlog/spendlog/internal/model"
	"github.com/spendlog/spendlog/internal/report"
)

func newMonthCommand(opts *globalOptions) *cobra.Command {
	var q struct {
		search, category, method, typ, sort string
	}

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show the transactions of one month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := now()
			if len(args) > 0 {
				var err error
				if month, err = time.Parse("2006-01", args[0]); err != nil {
					return fmt.Errorf("invalid month %q: want YYYY-MM", args[0])
				}
			}

			sortBy, err := report.ParseSortBy(q.sort)
			if err != nil {
				return err
			}
			var typ model.TransactionType
			if q.typ != "" {
				if typ, err = model.ParseTransactionType(q.typ); err != nil {
					return err
				}
			}

			return runMonth(cmd, opts.repo, month, monthFilter{
				text:     q.search,
				category: q.category,
				method:   q.method,
				typ:      typ,
				sortBy:   sortBy,
			})
		},
	}

	cmd.Flags().StringVar(&q.search, "search", "", "only memos containing this text")
	cmd.Flags().StringVar(&q.category, "category", "", "only this category")
	cmd.Flags().StringVar(&q.method, "method", "", "only this payment method")
	cmd.Flags().StringVar(&q.typ, "type", "", "only revenue or outgo")
	cmd.Flags().StringVar(&q.sort, "sort", string(report.SortByDate), "sort order (date or amount)")

	return cmd
}

type monthFilter struct {
	text     string
	category string
	method   string
	typ      model.TransactionType
	sortBy   report.SortBy
}

func runMonth(cmd *cobra.Command, repo string, month time.Time, f monthFilter) error {
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

	q := report.Query{Text: f.text, Type: f.typ}
	if f.category != "" {
		if q.CategoryID, err = findCategory(snap.Categories, f.category); err != nil {
			return err
		}
	}
	if f.method != "" {
		if q.PaymentMethodID, err = findPaymentMethod(snap.PaymentMethods, f.method); err != nil {
			return err
		}
	}

	txns := report.FilterMonth(snap.Transactions, month.Year(), int(month.Month()))
	txns = report.Search(txns, q, f.sortBy)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s\n\n", month.Format("January 2006"))
	if len(txns) == 0 {
		fmt.Fprintln(w, "No transactions")
		return nil
	}

	lookup := nameLookup(snap.Categories, snap.PaymentMethods)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if f.sortBy == report.SortByDate {
		for _, g := range report.GroupByDate(txns) {
			fmt.Fprintf(tw, "%s\t\t\t\t%s\n", g.Date, amount(g.Totals.Balance))
			for _, t := range g.Transactions {
				writeTransaction(tw, t, lookup)
			}
		}
	} else {
		for _, t := range txns {
			writeTransaction(tw, t, lookup)
		}
	}
	tw.Flush()

	fmt.Fprintln(w)
	writeTotals(w, report.Summarize(txns), snap.Settings.Currency)
	writeBreakdown(w, "By category", report.ByCategory(txns, snap.Categories))
	writeBreakdown(w, "By payment method", report.ByPaymentMethod(txns, snap.PaymentMethods))
	return nil
}

func newYearCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "year [YYYY]",
		Short: "Show yearly totals by month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year := now().Year()
			if len(args) > 0 {
				t, err := time.Parse("2006", args[0])
				if err != nil {
					return fmt.Errorf("invalid year %q: want YYYY", args[0])
				}
				year = t.Year()
			}
			return runYear(cmd, opts.repo, year)
		},
	}
}

func runYear(cmd *cobra.Command, repo string, year int) error {
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
	txns := report.FilterYear(snap.Transactions, year)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d\n\n", year)
	writeTotals(w, report.Summarize(txns), snap.Settings.Currency)

	months := report.MonthlyBreakdown(txns)
	if len(months) == 0 {
		fmt.Fprintln(w, "No transactions")
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tRevenue\tExpenses\tBalance\t")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", m.Month,
			amount(m.Totals.Revenue), amount(m.Totals.Expenses), amount(m.Totals.Balance))
	}
	return tw.Flush()
}

type nameIndex struct {
	categories map[string]string
	methods    map[string]string
}

func nameLookup(cats []model.Category, methods []model.PaymentMethod) nameIndex {
	n := nameIndex{categories: make(map[string]string), methods: make(map[string]string)}
	for _, c := range cats {
		n.categories[c.ID] = c.Name
	}
	for _, m := range methods {
		n.methods[m.ID] = m.Name
	}
	return n
}

func writeTransaction(w io.Writer, t model.Transaction, n nameIndex) {
	sign := "-"
	if t.Type == model.TypeRevenue {
		sign = "+"
	}
	fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s%s\n", t.Date, t.Memo,
		nameOr(n.categories, t.CategoryID), nameOr(n.methods, t.PaymentMethodID), sign, amount(t.Amount))
}

func nameOr(m map[string]string, id string) string {
	if name, ok := m[id]; ok {
		return name
	}
	return report.UnknownName
}

func writeTotals(w io.Writer, t report.Totals, currency string) {
	fmt.Fprintf(w, "Revenue:  %s %s\n", amount(t.Revenue), currency)
	fmt.Fprintf(w, "Expenses: %s %s\n", amount(t.Expenses), currency)
	fmt.Fprintf(w, "Balance:  %s %s\n", amount(t.Balance), currency)
}

func writeBreakdown(w io.Writer, title string, rows []report.Breakdown) {
	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, b := range rows {
		fmt.Fprintf(tw, "  %s\t%d\t+%s\t-%s\n", b.Name, b.Count, amount(b.Totals.Revenue), amount(b.Totals.Expenses))
	}
	tw.Flush()
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
