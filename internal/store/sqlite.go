package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "tinkoff-assistant/internal/errors"
	"tinkoff-assistant/internal/models"
)

// SQLiteStore implements PlanStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based plan store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the plans table.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		plan TEXT NOT NULL,
		status TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_plans_ticker_id ON plans(ticker, id DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AddPlan persists a new plan and returns its store-assigned id.
func (s *SQLiteStore) AddPlan(ctx context.Context, ticker, plan string, status models.PlanStatus) (int64, error) {
	if !status.Valid() {
		return 0, apperrors.NewStoreError("add", fmt.Errorf("invalid status %q", status))
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO plans (ticker, timestamp, plan, status) VALUES (?, ?, ?, ?)",
		strings.ToUpper(ticker),
		time.Now().UTC().Format(time.RFC3339Nano),
		plan,
		string(status),
	)
	if err != nil {
		return 0, apperrors.NewStoreError("add", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStoreError("add", err)
	}
	return id, nil
}

// UpdateStatus changes the status of an existing record.
func (s *SQLiteStore) UpdateStatus(ctx context.Context, id int64, status models.PlanStatus) error {
	if !status.Valid() {
		return apperrors.NewStoreError("update_status", fmt.Errorf("invalid status %q", status))
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE plans SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return apperrors.NewStoreError("update_status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("update_status", err)
	}
	if affected == 0 {
		return apperrors.ErrNoPlan
	}
	return nil
}

// LatestPlan returns the most recently created record for the ticker.
func (s *SQLiteStore) LatestPlan(ctx context.Context, ticker string) (*models.PlanRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, ticker, timestamp, plan, status FROM plans WHERE ticker=? ORDER BY id DESC LIMIT 1",
		strings.ToUpper(ticker))

	var (
		rec       models.PlanRecord
		timestamp string
		status    string
	)
	if err := row.Scan(&rec.ID, &rec.Ticker, &timestamp, &rec.Plan, &status); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperrors.NewStoreError("latest", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, apperrors.NewStoreError("latest", fmt.Errorf("parse timestamp %q: %w", timestamp, err))
	}
	rec.Timestamp = ts
	rec.Status = models.PlanStatus(status)
	return &rec, nil
}

// History returns all records for the ticker ordered by id ascending.
func (s *SQLiteStore) History(ctx context.Context, ticker string) ([]models.PlanRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, ticker, timestamp, plan, status FROM plans WHERE ticker=? ORDER BY id ASC",
		strings.ToUpper(ticker))
	if err != nil {
		return nil, apperrors.NewStoreError("history", err)
	}
	defer rows.Close()

	var records []models.PlanRecord
	for rows.Next() {
		var (
			rec       models.PlanRecord
			timestamp string
			status    string
		)
		if err := rows.Scan(&rec.ID, &rec.Ticker, &timestamp, &rec.Plan, &status); err != nil {
			return nil, apperrors.NewStoreError("history", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, apperrors.NewStoreError("history", fmt.Errorf("parse timestamp %q: %w", timestamp, err))
		}
		rec.Timestamp = ts
		rec.Status = models.PlanStatus(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("history", err)
	}
	return records, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
