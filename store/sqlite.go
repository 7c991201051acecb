package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"questengine/domain"
)

// SQLiteCache implements LocalCache using SQLite. Records are stored as
// JSON payloads with a few indexed columns; relationship maps inside the
// payload are already flattened to pair lists by the record projection.
type SQLiteCache struct {
	db *sql.DB
}

// Ensure SQLiteCache implements the LocalCache interface.
var _ LocalCache = (*SQLiteCache)(nil)

// NewSQLiteCache opens (and if needed migrates) a SQLite-backed cache.
func NewSQLiteCache(dsn string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cache := &SQLiteCache{db: db}
	if err := cache.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return cache, nil
}

func (c *SQLiteCache) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS session_records (
			session_id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			phase TEXT NOT NULL,
			saved_at DATETIME NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_records_owner ON session_records(owner_id, saved_at)`,
	}

	for _, m := range migrations {
		if _, err := c.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// LoadAll returns every cached session record.
func (c *SQLiteCache) LoadAll(ctx context.Context) ([]*domain.PersistenceRecord, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT payload FROM session_records ORDER BY saved_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query session records: %w", err)
	}
	defer rows.Close()

	var records []*domain.PersistenceRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan session record: %w", err)
		}
		var rec domain.PersistenceRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode session record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Save upserts a single record.
func (c *SQLiteCache) Save(ctx context.Context, record *domain.PersistenceRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO session_records (session_id, owner_id, phase, saved_at, payload) VALUES (?, ?, ?, ?, ?)`,
		record.SessionID, record.OwnerID, string(record.Phase), record.SavedAt, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}
	return nil
}

// SaveAll upserts a batch of records in one transaction.
func (c *SQLiteCache) SaveAll(ctx context.Context, records []*domain.PersistenceRecord) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO session_records (session_id, owner_id, phase, saved_at, payload) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode session record: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, record.SessionID, record.OwnerID, string(record.Phase), record.SavedAt, string(payload)); err != nil {
			return fmt.Errorf("failed to save session record %s: %w", record.SessionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Delete removes a record. Deleting an unknown id is not an error.
func (c *SQLiteCache) Delete(ctx context.Context, sessionID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM session_records WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}
