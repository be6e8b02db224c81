package services

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/username/salesreport/src/models"
	"github.com/username/salesreport/src/utils"
)

// TotalLabel marks the grand-total row.
const TotalLabel = "TOTAL"

// Report is the rendered daily table for one window: a row for every day
// of the range followed by exactly one TOTAL row.
type Report struct {
	Range models.DateRange
	Rows  []models.ReportRow
}

// BuildReport expands the daily summary over every day of r, filling days
// without orders with zeros, and appends the TOTAL row.
func BuildReport(summary models.DailySummaryResult, r models.DateRange) *Report {
	days := utils.DaysBetween(r.Start, r.End)
	rows := make([]models.ReportRow, 0, r.Days()+1)

	for _, day := range days {
		s := summary[day.Format(utils.DayKeyFormat)]
		rows = append(rows, models.ReportRow{
			Day:    day,
			Label:  day.Format(utils.DayLabelFormat),
			Sales:  s.Sales,
			Items:  s.Items,
			Orders: s.Orders,
		})
	}
	rows = append(rows, SumRows(rows))

	return &Report{Range: r, Rows: rows}
}

// SumRows adds up the day rows into a TOTAL row. Rows already marked as
// totals are ignored.
func SumRows(rows []models.ReportRow) models.ReportRow {
	total := models.ReportRow{Label: TotalLabel, Sales: decimal.Zero, IsTotal: true}
	for _, row := range rows {
		if row.IsTotal {
			continue
		}
		total.Sales = total.Sales.Add(row.Sales)
		total.Items += row.Items
		total.Orders += row.Orders
	}
	return total
}

// DayRows is every row except the trailing TOTAL.
func (r *Report) DayRows() []models.ReportRow {
	if len(r.Rows) == 0 {
		return nil
	}
	return r.Rows[:len(r.Rows)-1]
}

// Total is the trailing TOTAL row.
func (r *Report) Total() models.ReportRow {
	if len(r.Rows) == 0 {
		return SumRows(nil)
	}
	return r.Rows[len(r.Rows)-1]
}

// FileName embeds the window, e.g. report_20240801_to_20240831.xlsx.
func (r *Report) FileName() string {
	return fmt.Sprintf("report_%s_to_%s.xlsx",
		r.Range.Start.Format(utils.FileDateFormat), r.Range.End.Format(utils.FileDateFormat))
}

// RenderTable prints the rows as an aligned text table.
func RenderTable(w io.Writer, rows []models.ReportRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Day\tTotal sales\tNet items sold\tOrders\t")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t\n", row.Label, row.Sales.StringFixed(2), row.Items, row.Orders)
	}
	return tw.Flush()
}
