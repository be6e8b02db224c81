package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/username/salesreport/src/logger"
	_ "modernc.org/sqlite"
)

// RunRecord is one finished report run.
type RunRecord struct {
	RunID          string
	Shop           string
	StartDate      string
	EndDate        string
	TotalSales     string
	TotalOrders    int
	TotalItems     int
	OrdersFetched  int
	Pages          int
	FetchTruncated bool
	FileName       string
	Emailed        bool
	CreatedAt      time.Time
}

// RunHistory is an append-only log of report runs. Nothing in a run reads it.
type RunHistory struct {
	db *sql.DB
}

// OpenRunHistory opens (creating if needed) the SQLite file at databasePath
// and brings the report_runs table up to date.
func OpenRunHistory(databasePath string) (*RunHistory, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", databasePath, err)
	}
	db.SetMaxOpenConns(1)

	logger.L.Info("Checking run history schema", "databasePath", databasePath)
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrateReportRuns(db); err != nil {
		db.Close()
		return nil, err
	}
	return &RunHistory{db: db}, nil
}

func createTables(db *sql.DB) error {
	createTableStatement := `
	CREATE TABLE IF NOT EXISTS report_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		shop TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		total_sales TEXT NOT NULL,
		total_orders INTEGER NOT NULL,
		total_items INTEGER NOT NULL,
		orders_fetched INTEGER NOT NULL,
		pages INTEGER DEFAULT 0,
		fetch_truncated BOOLEAN DEFAULT FALSE,
		file_name TEXT,
		emailed BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(createTableStatement); err != nil {
		logger.L.Error("failed to create tables", "error", err)
		return fmt.Errorf("failed to create tables: %w", err)
	}
	logger.L.Debug("Run history tables ensured/created.")
	return nil
}

// migrateReportRuns adds columns missing from files created by older versions.
func migrateReportRuns(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(report_runs)")
	if err != nil {
		return fmt.Errorf("querying table schema for report_runs: %w", err)
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scanning column info for report_runs: %w", err)
		}
		columnExists[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating over column info for report_runs: %w", err)
	}
	rows.Close()

	if !columnExists["pages"] {
		if _, err := db.Exec("ALTER TABLE report_runs ADD COLUMN pages INTEGER DEFAULT 0"); err != nil {
			return fmt.Errorf("adding 'pages' column to report_runs: %w", err)
		}
		logger.L.Info("Added 'pages' column to 'report_runs' table")
	}
	return nil
}

// RecordRun appends rec. A zero CreatedAt is stamped with the current time.
func (h *RunHistory) RecordRun(ctx context.Context, rec RunRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := h.db.ExecContext(ctx, `INSERT INTO report_runs
		(run_id, shop, start_date, end_date, total_sales, total_orders, total_items, orders_fetched, pages, fetch_truncated, file_name, emailed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Shop, rec.StartDate, rec.EndDate, rec.TotalSales, rec.TotalOrders, rec.TotalItems,
		rec.OrdersFetched, rec.Pages, rec.FetchTruncated, rec.FileName, rec.Emailed, rec.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("error inserting report run %s: %w", rec.RunID, err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first. Report runs never call
// it; it is the read-back for inspecting the history and for tests.
func (h *RunHistory) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT run_id, shop, start_date, end_date, total_sales, total_orders,
		total_items, orders_fetched, pages, fetch_truncated, file_name, emailed, created_at
		FROM report_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying report runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var fileName sql.NullString
		var createdAt string
		if err := rows.Scan(&rec.RunID, &rec.Shop, &rec.StartDate, &rec.EndDate, &rec.TotalSales, &rec.TotalOrders,
			&rec.TotalItems, &rec.OrdersFetched, &rec.Pages, &rec.FetchTruncated, &fileName, &rec.Emailed, &createdAt); err != nil {
			return nil, err
		}
		if fileName.Valid {
			rec.FileName = fileName.String
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (h *RunHistory) Close() error {
	return h.db.Close()
}
