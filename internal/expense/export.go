package expense

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	expensesSheet = "Expenses"
	summarySheet  = "Summary"
)

// WriteXLSX writes a workbook with one row per expense and a per-category summary sheet
func WriteXLSX(w io.Writer, expenses []*Expense, totals []CategoryTotal) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	writeRow := func(sheet string, row int, values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := writeRow(expensesSheet, 1, "Date", "Item", "Category", "Amount"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, e := range expenses {
		if err := writeRow(expensesSheet, i+2, e.CreatedAt.Format("2006-01-02 15:04"), e.Item, e.Category, e.Amount); err != nil {
			return fmt.Errorf("write expense row: %w", err)
		}
	}

	if err := writeRow(summarySheet, 1, "Category", "Total"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, t := range totals {
		if err := writeRow(summarySheet, i+2, t.Category, t.Total); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}

	_ = f.SetColWidth(expensesSheet, "A", "A", 18)
	_ = f.SetColWidth(expensesSheet, "B", "B", 32)
	_ = f.SetColWidth(expensesSheet, "C", "D", 14)
	_ = f.SetColWidth(summarySheet, "A", "B", 16)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
