package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/username/salesreport/src/database"
	"github.com/username/salesreport/src/logger"
	"github.com/username/salesreport/src/models"
	"github.com/username/salesreport/src/processors"
	"github.com/username/salesreport/src/utils"
)

// RunRecorder stores a summary of each finished run.
type RunRecorder interface {
	RecordRun(ctx context.Context, rec database.RunRecord) error
}

// ReportOptions are the per-run settings of the report pipeline.
type ReportOptions struct {
	Shop          string
	Range         models.DateRange
	PageLimit     int
	OutputDir     string
	EmailFrom     string
	EmailTo       string
	CurrencyLabel string
	DryRun        bool
	Console       io.Writer // table output; nil discards it
}

// RunOutcome describes what a run produced.
type RunOutcome struct {
	RunID    string
	Fetch    *FetchResult
	Summary  models.DailySummaryResult
	Report   *Report
	FilePath string
	Emailed  bool
}

// ReportService runs fetch, aggregate, render and send, strictly in that order.
type ReportService struct {
	orders    OrderService
	processor processors.DailyProcessor
	writer    SpreadsheetWriter
	email     EmailService
	history   RunRecorder
}

// NewReportService wires the pipeline. history may be nil.
func NewReportService(
	orders OrderService,
	processor processors.DailyProcessor,
	writer SpreadsheetWriter,
	email EmailService,
	history RunRecorder,
) *ReportService {
	return &ReportService{
		orders:    orders,
		processor: processor,
		writer:    writer,
		email:     email,
		history:   history,
	}
}

// Run produces and delivers one report. An API error during pagination is
// logged and the run goes on with the orders fetched so far; any other
// failure ends the run with an error.
func (s *ReportService) Run(ctx context.Context, opts ReportOptions) (*RunOutcome, error) {
	overallStartTime := time.Now()
	outcome := &RunOutcome{RunID: uuid.NewString()}
	log := logger.L.With("runID", outcome.RunID)
	log.Info("Report run START",
		"shop", opts.Shop,
		"start", opts.Range.Start.Format(utils.DayKeyFormat),
		"end", opts.Range.End.Format(utils.DayKeyFormat))

	fetch, err := s.orders.FetchOrders(ctx, OrderWindow{Range: opts.Range, Limit: opts.PageLimit})
	if err != nil {
		if !errors.Is(err, ErrAPIStatus) {
			return outcome, fmt.Errorf("fetching orders: %w", err)
		}
		log.Warn("Continuing with partial order data", "error", err)
	}
	if fetch == nil {
		fetch = &FetchResult{}
	}
	outcome.Fetch = fetch
	log.Info("Raw orders fetched", "count", len(fetch.Orders), "pages", fetch.Pages, "truncated", fetch.Truncated)

	outcome.Summary = s.processor.Calculate(fetch.Orders)
	outcome.Report = BuildReport(outcome.Summary, opts.Range)

	console := opts.Console
	if console == nil {
		console = io.Discard
	}
	if err := RenderTable(console, outcome.Report.Rows); err != nil {
		log.Warn("Failed to print report table", "error", err)
	}

	outcome.FilePath = filepath.Join(opts.OutputDir, outcome.Report.FileName())
	if err := s.writer.Write(outcome.FilePath, outcome.Report.Rows); err != nil {
		return outcome, fmt.Errorf("writing spreadsheet: %w", err)
	}

	if opts.DryRun {
		log.Info("Dry run: report email not sent", "file", outcome.FilePath)
	} else {
		if err := s.send(ctx, opts, outcome); err != nil {
			s.record(ctx, opts, outcome)
			return outcome, err
		}
		outcome.Emailed = true
	}

	s.record(ctx, opts, outcome)
	log.Info("Report run END", "to", opts.EmailTo, "emailed", outcome.Emailed, "duration", time.Since(overallStartTime))
	return outcome, nil
}

func (s *ReportService) send(ctx context.Context, opts ReportOptions, outcome *RunOutcome) error {
	attachment, err := os.ReadFile(outcome.FilePath)
	if err != nil {
		return fmt.Errorf("reading spreadsheet for attachment: %w", err)
	}
	msg := ComposeReportEmail(outcome.Report, opts.EmailFrom, opts.EmailTo, opts.CurrencyLabel, attachment)
	if err := s.email.SendReport(ctx, msg); err != nil {
		return fmt.Errorf("sending report email: %w", err)
	}
	return nil
}

func (s *ReportService) record(ctx context.Context, opts ReportOptions, outcome *RunOutcome) {
	if s.history == nil || outcome.Report == nil {
		return
	}
	total := outcome.Report.Total()
	rec := database.RunRecord{
		RunID:       outcome.RunID,
		Shop:        opts.Shop,
		StartDate:   opts.Range.Start.Format(utils.DayKeyFormat),
		EndDate:     opts.Range.End.Format(utils.DayKeyFormat),
		TotalSales:  total.Sales.StringFixed(2),
		TotalOrders: total.Orders,
		TotalItems:  total.Items,
		FileName:    filepath.Base(outcome.FilePath),
		Emailed:     outcome.Emailed,
	}
	if outcome.Fetch != nil {
		rec.OrdersFetched = len(outcome.Fetch.Orders)
		rec.Pages = outcome.Fetch.Pages
		rec.FetchTruncated = outcome.Fetch.Truncated
	}
	if err := s.history.RecordRun(ctx, rec); err != nil {
		logger.L.Error("Failed to record report run", "runID", outcome.RunID, "error", err)
	}
}
