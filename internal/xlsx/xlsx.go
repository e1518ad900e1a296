// Package xlsx writes a spendlog snapshot as an Excel workbook with one sheet
// per export section.
package xlsx

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spendlog/spendlog/internal/tsv"
)

// Sheet names, in workbook order.
const (
	SheetTransactions   = "Transactions"
	SheetCategories     = "Categories"
	SheetPaymentMethods = "Payment Methods"
	SheetUserSettings   = "User Settings"
)

// Write renders snap as an .xlsx workbook. Amounts are numeric cells.
func Write(w io.Writer, snap tsv.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetTransactions); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for _, name := range []string{SheetCategories, SheetPaymentMethods, SheetUserSettings} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	catNames := make(map[string]string, len(snap.Categories))
	for _, c := range snap.Categories {
		catNames[c.ID] = c.Name
	}
	methodNames := make(map[string]string, len(snap.PaymentMethods))
	for _, m := range snap.PaymentMethods {
		methodNames[m.ID] = m.Name
	}

	header := make([]any, len(tsv.ColumnHeader))
	for i, h := range tsv.ColumnHeader {
		header[i] = h
	}
	rows := [][]any{header}
	for _, t := range snap.Transactions {
		rows = append(rows, []any{
			t.Date,
			t.Amount.InexactFloat64(),
			t.Memo,
			catNames[t.CategoryID],
			methodNames[t.PaymentMethodID],
			string(t.Type),
		})
	}
	if err := writeRows(f, SheetTransactions, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, c := range snap.Categories {
		rows = append(rows, []any{c.Name})
	}
	if err := writeRows(f, SheetCategories, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, m := range snap.PaymentMethods {
		rows = append(rows, []any{m.Name})
	}
	if err := writeRows(f, SheetPaymentMethods, rows); err != nil {
		return err
	}

	rows = [][]any{
		{"Name", snap.Settings.Name},
		{"Currency", snap.Settings.Currency},
	}
	if snap.Settings.AppIcon != nil && snap.Settings.AppIcon.Emoji != "" {
		rows = append(rows, []any{"App Icon", snap.Settings.AppIcon.Emoji})
	}
	if err := writeRows(f, SheetUserSettings, rows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// ExportFileName mirrors tsv.ExportFileName with an .xlsx extension.
func ExportFileName(year int, now time.Time) string {
	return strings.TrimSuffix(tsv.ExportFileName(year, now), ".tsv") + ".xlsx"
}
