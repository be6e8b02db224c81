package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/username/salesreport/src/logger"
	"github.com/username/salesreport/src/models"
	"github.com/xuri/excelize/v2"
)

const (
	// ReportSheetName is the single sheet of the workbook.
	ReportSheetName = "Report"
	defaultSheet    = "Sheet1"
	numFmtThousands = 4 // #,##0.00
)

// ReportColumns is the header row, in column order.
var ReportColumns = []string{"Day", "Total sales", "Net items sold", "Orders"}

// SpreadsheetWriter persists report rows as a file at path.
type SpreadsheetWriter interface {
	Write(path string, rows []models.ReportRow) error
}

type excelWriter struct{}

// NewExcelWriter returns a SpreadsheetWriter producing .xlsx workbooks.
func NewExcelWriter() SpreadsheetWriter {
	return &excelWriter{}
}

func (w *excelWriter) Write(path string, rows []models.ReportRow) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.L.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName(defaultSheet, ReportSheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(ReportColumns))
	for i, col := range ReportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(ReportSheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Label, row.Sales.InexactFloat64(), row.Items, row.Orders}
		if err := f.SetSheetRow(ReportSheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := w.applyStyles(f, rows); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	logger.L.Info("Spreadsheet written", "path", path, "rows", len(rows))
	return nil
}

func (w *excelWriter) applyStyles(f *excelize.File, rows []models.ReportRow) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousands})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}
	boldMoney, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtThousands})
	if err != nil {
		return fmt.Errorf("creating total style: %w", err)
	}

	if err := f.SetCellStyle(ReportSheetName, "A1", "D1", bold); err != nil {
		return err
	}
	if len(rows) > 0 {
		last := len(rows) + 1
		if err := f.SetCellStyle(ReportSheetName, "B2", fmt.Sprintf("B%d", last), money); err != nil {
			return err
		}
		for i, row := range rows {
			if !row.IsTotal {
				continue
			}
			r := i + 2
			if err := f.SetCellStyle(ReportSheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("D%d", r), bold); err != nil {
				return err
			}
			if err := f.SetCellStyle(ReportSheetName, fmt.Sprintf("B%d", r), fmt.Sprintf("B%d", r), boldMoney); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(ReportSheetName, "A", "D", 16)
}
