// Package database provides SQLite implementation of the Store interface.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/truthlens/truthlens/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS analysis_history (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			verdict TEXT NOT NULL,
			score INTEGER NOT NULL,
			summary TEXT NOT NULL,
			result TEXT NOT NULL,
			degraded INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_kind ON analysis_history(kind, created_at)`,
		`CREATE TABLE IF NOT EXISTS request_logs (
			id TEXT PRIMARY KEY,
			endpoint TEXT NOT NULL,
			method TEXT NOT NULL,
			request_size INTEGER NOT NULL,
			response_code INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			timestamp DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_request_logs_timestamp ON request_logs(timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRecord stores an analysis record.
func (s *SQLiteStore) SaveRecord(ctx context.Context, rec *models.AnalysisRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_history (id, kind, verdict, score, summary, result, degraded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Kind, rec.Verdict, rec.Score, rec.Summary,
		string(rec.Result), rec.Degraded, rec.CreatedAt,
	)
	return err
}

// GetRecord retrieves an analysis record by ID.
func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, verdict, score, summary, result, degraded, created_at
		FROM analysis_history WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecords returns paginated analysis records, optionally filtered
// by kind.
func (s *SQLiteStore) ListRecords(ctx context.Context, kind models.AnalysisKind, limit, offset int) ([]*models.AnalysisRecord, error) {
	query := `
		SELECT id, kind, verdict, score, summary, result, degraded, created_at
		FROM analysis_history`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LogRequest stores a request audit entry.
func (s *SQLiteStore) LogRequest(ctx context.Context, entry *models.RequestLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO request_logs (id, endpoint, method, request_size, response_code, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Endpoint, entry.Method, entry.RequestSize,
		entry.ResponseCode, entry.DurationMs, entry.Timestamp)
	return err
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.AnalysisRecord, error) {
	var rec models.AnalysisRecord
	var result string
	if err := row.Scan(&rec.ID, &rec.Kind, &rec.Verdict, &rec.Score,
		&rec.Summary, &result, &rec.Degraded, &rec.CreatedAt); err != nil {
		return nil, err
	}
	rec.Result = []byte(result)
	return &rec, nil
}
