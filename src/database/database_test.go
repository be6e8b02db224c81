package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func openTestHistory(t *testing.T) (*RunHistory, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenRunHistory(path)
	if err != nil {
		t.Fatalf("OpenRunHistory: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h, path
}

func TestRunHistory_RecordAndList(t *testing.T) {
	h, _ := openTestHistory(t)
	ctx := context.Background()

	first := RunRecord{
		RunID: "run-1", Shop: "shop.myshopify.com", StartDate: "2024-07-01", EndDate: "2024-07-31",
		TotalSales: "150.00", TotalOrders: 2, TotalItems: 2, OrdersFetched: 3, Pages: 1,
		FileName: "report_20240701_to_20240731.xlsx", Emailed: true,
		CreatedAt: time.Date(2024, 8, 1, 6, 0, 0, 0, time.UTC),
	}
	second := RunRecord{
		RunID: "run-2", Shop: "shop.myshopify.com", StartDate: "2024-08-01", EndDate: "2024-08-31",
		TotalSales: "0.00", FetchTruncated: true,
	}
	for _, rec := range []RunRecord{first, second} {
		if err := h.RecordRun(ctx, rec); err != nil {
			t.Fatalf("RecordRun(%s): %v", rec.RunID, err)
		}
	}

	runs, err := h.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-2" || runs[1].RunID != "run-1" {
		t.Errorf("expected newest first, got %s, %s", runs[0].RunID, runs[1].RunID)
	}
	if !runs[0].FetchTruncated || runs[0].Emailed || runs[0].CreatedAt.IsZero() {
		t.Errorf("unexpected second run: %+v", runs[0])
	}
	got := runs[1]
	if got.TotalSales != "150.00" || got.TotalOrders != 2 || got.Pages != 1 || !got.Emailed ||
		got.FileName != first.FileName || !got.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("round-tripped run differs: %+v", got)
	}

	limited, err := h.RecentRuns(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("RecentRuns(1) = %d runs, err %v", len(limited), err)
	}
}

func TestRunHistory_DuplicateRunIDRejected(t *testing.T) {
	h, _ := openTestHistory(t)
	rec := RunRecord{RunID: "dup", Shop: "s", StartDate: "2024-08-01", EndDate: "2024-08-01", TotalSales: "0.00"}
	if err := h.RecordRun(context.Background(), rec); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := h.RecordRun(context.Background(), rec); err == nil {
		t.Error("expected the second insert with the same run id to fail")
	}
}

func columnNames(t *testing.T, db *sql.DB) map[string]bool {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info('report_runs')")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()
	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatal(err)
		}
		names[name] = true
	}
	return names
}

func TestCreateTables_IncludesPages(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := createTables(db); err != nil {
		t.Fatalf("createTables: %v", err)
	}
	if !columnNames(t, db)["pages"] {
		t.Error("fresh schema is missing the pages column")
	}
	if err := migrateReportRuns(db); err != nil {
		t.Errorf("migrating a fresh schema: %v", err)
	}
}

func TestOpenRunHistory_MigratesOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE report_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		shop TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		total_sales TEXT NOT NULL,
		total_orders INTEGER NOT NULL,
		total_items INTEGER NOT NULL,
		orders_fetched INTEGER NOT NULL,
		fetch_truncated BOOLEAN DEFAULT FALSE,
		file_name TEXT,
		emailed BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO report_runs (run_id, shop, start_date, end_date, total_sales, total_orders, total_items, orders_fetched)
		VALUES ('old', 's', '2024-06-01', '2024-06-30', '1.00', 1, 1, 1)`); err != nil {
		t.Fatal(err)
	}
	if columnNames(t, db)["pages"] {
		t.Fatal("old schema unexpectedly has a pages column")
	}
	db.Close()

	h, err := OpenRunHistory(path)
	if err != nil {
		t.Fatalf("OpenRunHistory on old schema: %v", err)
	}
	defer h.Close()

	runs, err := h.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns after migration: %v", err)
	}
	if len(runs) != 1 || runs[0].Pages != 0 {
		t.Errorf("unexpected runs after migration: %+v", runs)
	}

	// reopening an up-to-date schema is a no-op
	h2, err := OpenRunHistory(path)
	if err != nil {
		t.Fatalf("second OpenRunHistory: %v", err)
	}
	h2.Close()
}
