/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Goldenboy100/golden-exchange--sub000/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// RecordStore persists collection rows as JSON documents keyed by
// (collection, id). The server never interprets row bodies beyond the id
// field, so clients can evolve their entity shapes without schema changes.
type RecordStore struct {
	db *sql.DB
}

const (
	queryGetRecords   = `SELECT body FROM records WHERE collection = ? ORDER BY id`
	queryUpsertRecord = `INSERT INTO records (collection, id, body, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection, id) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`
	queryDeleteRecord = `DELETE FROM records WHERE collection = ? AND id = ?`
)

func NewRecordStore(ctx context.Context, cfg models.DatabaseConfig) (*RecordStore, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	store := &RecordStore{db: db}
	if err := store.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Record store initialized successfully")
	return store, nil
}

func (s *RecordStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		body TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, id)
	);

	-- Create index for per-collection scans
	CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *RecordStore) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

// SelectAll returns every row body in a collection as raw JSON.
func (s *RecordStore) SelectAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, queryGetRecords, collection)
	if err != nil {
		zap.L().Error("Failed to query records", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("unable to query records: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	out := make([]json.RawMessage, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			zap.L().Error("Failed to scan record row", zap.Error(err))
			return nil, fmt.Errorf("unable to scan record row: %w", err)
		}
		out = append(out, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}
	return out, nil
}

// Upsert writes each row into the collection, replacing any existing row with
// the same id. All rows go in one transaction.
func (s *RecordStore) Upsert(ctx context.Context, collection string, rows []json.RawMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, row := range rows {
		id, err := recordId(row)
		if err != nil {
			return fmt.Errorf("row %d in %s: %w", i, collection, err)
		}
		if _, err := tx.ExecContext(ctx, queryUpsertRecord, collection, id, string(row)); err != nil {
			return fmt.Errorf("unable to upsert record %s/%s: %w", collection, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit upsert: %w", err)
	}
	zap.L().Debug("Upserted records", zap.String("collection", collection), zap.Int("count", len(rows)))
	return nil
}

// Delete removes one row. Deleting an absent row is not an error.
func (s *RecordStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.ExecContext(ctx, queryDeleteRecord, collection, id); err != nil {
		return fmt.Errorf("unable to delete record %s/%s: %w", collection, id, err)
	}
	return nil
}

// recordId extracts the id field from a row body. Singleton rows may carry a
// numeric id; it is normalized to its decimal string.
func recordId(row json.RawMessage) (string, error) {
	var probe struct {
		Id json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(row, &probe); err != nil {
		return "", fmt.Errorf("invalid record body: %w", err)
	}
	if len(probe.Id) == 0 {
		return "", fmt.Errorf("record has no id field")
	}

	var asString string
	if err := json.Unmarshal(probe.Id, &asString); err == nil {
		if asString == "" {
			return "", fmt.Errorf("record has empty id")
		}
		return asString, nil
	}
	var asNumber int64
	if err := json.Unmarshal(probe.Id, &asNumber); err == nil {
		return strconv.FormatInt(asNumber, 10), nil
	}
	return "", fmt.Errorf("record id is neither string nor integer")
}
