package tsv

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spendlog/spendlog/internal/model"
)

// ColumnHeader is the header row written ahead of transaction rows.
var ColumnHeader = []string{"Date", "Amount", "Memo", "Category", "Payment Method", "Type"}

// Snapshot is everything an export carries.
type Snapshot struct {
	Transactions   []model.Transaction
	Categories     []model.Category
	PaymentMethods []model.PaymentMethod
	Settings       model.UserSettings
}

// Write renders snap in the format Parse reads. Category and payment method
// ids are written as names; tabs and line breaks inside values are replaced
// with spaces since the format has no quoting. Names equal to a section
// header do not round-trip; store.CleanName keeps them out of the store.
func Write(w io.Writer, snap Snapshot) error {
	catNames := make(map[string]string, len(snap.Categories))
	for _, c := range snap.Categories {
		catNames[c.ID] = c.Name
	}
	methodNames := make(map[string]string, len(snap.PaymentMethods))
	for _, m := range snap.PaymentMethods {
		methodNames[m.ID] = m.Name
	}

	bw := bufio.NewWriter(w)
	writeRow(bw, ColumnHeader...)
	for _, t := range snap.Transactions {
		writeRow(bw,
			t.Date,
			t.Amount.String(),
			t.Memo,
			catNames[t.CategoryID],
			methodNames[t.PaymentMethodID],
			string(t.Type),
		)
	}

	fmt.Fprintf(bw, "\n%s\n", HeaderCategories)
	for _, c := range snap.Categories {
		writeRow(bw, c.Name)
	}

	fmt.Fprintf(bw, "\n%s\n", HeaderPaymentMethods)
	for _, m := range snap.PaymentMethods {
		writeRow(bw, m.Name)
	}

	fmt.Fprintf(bw, "\n%s\n", HeaderUserSettings)
	if snap.Settings.Name != "" {
		writeRow(bw, "Name", snap.Settings.Name)
	}
	if snap.Settings.Currency != "" {
		writeRow(bw, "Currency", snap.Settings.Currency)
	}
	if snap.Settings.AppIcon != nil && snap.Settings.AppIcon.Emoji != "" {
		writeRow(bw, "App Icon", snap.Settings.AppIcon.Emoji)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

func writeRow(w *bufio.Writer, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte('\t')
		}
		w.WriteString(clean(f))
	}
	w.WriteByte('\n')
}

var cleaner = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func clean(s string) string {
	return cleaner.Replace(s)
}

// ExportFileName returns the download name for a yearly export,
// e.g. "spendlog-2024-20261014-153000.tsv".
func ExportFileName(year int, now time.Time) string {
	return fmt.Sprintf("spendlog-%04d-%s.tsv", year, now.Format("20060102-150405"))
}
