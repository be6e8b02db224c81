package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/username/salesreport/src/config"
	"github.com/username/salesreport/src/database"
	"github.com/username/salesreport/src/logger"
	"github.com/username/salesreport/src/models"
	"github.com/username/salesreport/src/processors"
	"github.com/username/salesreport/src/services"
	"golang.org/x/oauth2"
)

func main() {
	cfg, err := config.LoadConfig(time.Now())
	if err != nil {
		logger.L.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.InitLogger(cfg.LogLevel)
	logger.L.Info("Shopify sales report starting...", "shop", cfg.ShopDomain, "dryRun", cfg.DryRun)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.L.Info("Initializing services...")
	orderService := services.NewShopifyClient(services.ShopifyClientConfig{
		BaseURL:           cfg.APIBaseURL(),
		TokenSource:       oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken}),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Timeout:           cfg.HTTPTimeout,
	})
	dailyProcessor := processors.NewDailyProcessor(cfg.Debug)
	spreadsheetWriter := services.NewExcelWriter()
	emailService := services.NewEmailService(cfg)

	var history services.RunRecorder
	if cfg.HistoryDatabasePath != "" {
		logger.L.Info("Initializing run history...", "path", cfg.HistoryDatabasePath)
		runHistory, err := database.OpenRunHistory(cfg.HistoryDatabasePath)
		if err != nil {
			logger.L.Error("Run history unavailable, continuing without it", "error", err)
		} else {
			defer runHistory.Close()
			history = runHistory
		}
	}

	reportService := services.NewReportService(orderService, dailyProcessor, spreadsheetWriter, emailService, history)
	outcome, err := reportService.Run(ctx, services.ReportOptions{
		Shop:          cfg.ShopDomain,
		Range:         models.DateRange{Start: cfg.ReportStartDate, End: cfg.ReportEndDate},
		PageLimit:     cfg.PageLimit,
		OutputDir:     cfg.ReportOutputDir,
		EmailFrom:     cfg.EmailFrom,
		EmailTo:       cfg.EmailTo,
		CurrencyLabel: cfg.CurrencyLabel,
		DryRun:        cfg.DryRun,
		Console:       os.Stdout,
	})
	if err != nil {
		logger.L.Error("Report run failed", "error", err)
		stop()
		os.Exit(1)
	}

	if outcome.Emailed {
		logger.L.Info("Report sent", "to", cfg.EmailTo, "file", outcome.FilePath)
	} else {
		logger.L.Info("Report written", "file", outcome.FilePath)
	}
}
