package services

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/username/salesreport/src/utils"
)

const reportBodyTemplate = `Hello,

Here is the Shopify sales report for the period %s to %s.

Summary:
- Total Sales   : %s %s
- Total Orders  : %d
- Total Items   : %d

The daily breakdown is in the attached Excel file.

Regards,
Shopify Report Bot
`

// ComposeReportEmail builds the message announcing report with the workbook
// bytes attached under the report's file name.
func ComposeReportEmail(report *Report, from, to, currencyLabel string, attachment []byte) ReportEmail {
	start := report.Range.Start.Format(utils.DayKeyFormat)
	end := report.Range.End.Format(utils.DayKeyFormat)
	total := report.Total()

	return ReportEmail{
		From:           from,
		To:             to,
		Subject:        fmt.Sprintf("Shopify report %s to %s", start, end),
		Body:           fmt.Sprintf(reportBodyTemplate, start, end, currencyLabel, FormatMoney(total.Sales.InexactFloat64()), total.Orders, total.Items),
		AttachmentName: report.FileName(),
		Attachment:     attachment,
	}
}

// FormatMoney groups thousands and keeps two decimals: 1234567.5 -> "1,234,567.50".
func FormatMoney(amount float64) string {
	return humanize.FormatFloat("#,###.##", amount)
}
