package services

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/username/salesreport/src/models"
	"github.com/xuri/excelize/v2"
)

func TestExcelWriter_Write(t *testing.T) {
	summary := models.DailySummaryResult{
		"2024-08-01": {Sales: decimal.RequireFromString("150.25"), Orders: 2, Items: 2},
	}
	report := BuildReport(summary, augustRange(3))
	path := filepath.Join(t.TempDir(), "out", report.FileName())

	if err := NewExcelWriter().Write(path, report.Rows); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	if diff := cmp.Diff([]string{ReportSheetName}, f.GetSheetList()); diff != "" {
		t.Errorf("sheet list mismatch (-want +got):\n%s", diff)
	}

	rows, err := f.GetRows(ReportSheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	want := [][]string{
		{"Day", "Total sales", "Net items sold", "Orders"},
		{"Aug 1, 2024", "150.25", "2", "2"},
		{"Aug 2, 2024", "0", "0", "0"},
		{"Aug 3, 2024", "0", "0", "0"},
		{"TOTAL", "150.25", "2", "2"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("sheet contents mismatch (-want +got):\n%s", diff)
	}
}
