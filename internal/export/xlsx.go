// Package export writes ledger snapshots to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"personal-ledger/internal/analytics"
	"personal-ledger/internal/models"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	EntriesSheet = "Entries"
	SummarySheet = "Summary"
)

var (
	entryHeader   = []interface{}{"date", "type", "category", "description", "amount"}
	summaryHeader = []interface{}{"category", "income", "expense", "net"}
)

// Workbook builds an XLSX workbook with every entry and, when month is
// not empty, that month's category summary and totals.
func Workbook(entries []models.Entry, month string) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", EntriesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeEntries(f, entries); err != nil {
		f.Close()
		return nil, err
	}

	if month != "" {
		if _, err := f.NewSheet(SummarySheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("create summary sheet: %w", err)
		}
		if err := writeSummary(f, entries, month); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteXLSX writes the workbook for entries to w.
func WriteXLSX(w io.Writer, entries []models.Entry, month string) error {
	f, err := Workbook(entries, month)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeEntries(f *excelize.File, entries []models.Entry) error {
	if err := f.SetSheetRow(EntriesSheet, "A1", &entryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.Date, string(e.Kind), e.Category, e.Description, e.Amount}
		if err := f.SetSheetRow(EntriesSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	widths := []struct {
		col   string
		width float64
	}{{"A", 12}, {"C", 15}, {"D", 30}}
	for _, w := range widths {
		if err := f.SetColWidth(EntriesSheet, w.col, w.col, w.width); err != nil {
			return fmt.Errorf("set width of column %s: %w", w.col, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, entries []models.Entry, month string) error {
	if err := f.SetCellValue(SummarySheet, "A1", month); err != nil {
		return err
	}
	if err := f.SetSheetRow(SummarySheet, "A2", &summaryHeader); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	rows := analytics.MonthSummary(entries, month)
	for i, s := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return err
		}
		row := []interface{}{s.Category, s.Income, s.Expense, s.Net}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	totals := analytics.MonthTotals(entries, month)
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+3)
	if err != nil {
		return err
	}
	row := []interface{}{"total", totals.Income, totals.Expense, totals.Net}
	return f.SetSheetRow(SummarySheet, cell, &row)
}
