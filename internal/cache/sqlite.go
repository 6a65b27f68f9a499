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

package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *SQLiteMedium must satisfy Medium.
var _ Medium = (*SQLiteMedium)(nil)

// SQLiteMedium persists cache entries in a single-file SQLite database.
type SQLiteMedium struct {
	db *sql.DB
}

const cacheSchema = `
	CREATE TABLE IF NOT EXISTS app_cache (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

// OpenSQLite opens (or creates) the cache database.
func OpenSQLite(path string) (*SQLiteMedium, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path cannot be empty")
	}

	zap.L().Info("Opening SQLite cache", zap.String("file", path))
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open cache database: %w", err)
	}

	// The cache is single-writer; one connection keeps :memory: databases
	// coherent in tests as well.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(cacheSchema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize cache schema: %w", err)
	}

	return &SQLiteMedium{db: db}, nil
}

func (m *SQLiteMedium) Close() {
	if err := m.db.Close(); err != nil {
		zap.L().Warn("Failed to close cache database", zap.Error(err))
	}
}

func (m *SQLiteMedium) Read(key string) (string, bool, error) {
	var value string
	err := m.db.QueryRow(`SELECT value FROM app_cache WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("unable to read cache key %q: %w", key, err)
	}
	return value, true, nil
}

func (m *SQLiteMedium) Write(key, value string) error {
	_, err := m.db.Exec(`
		INSERT INTO app_cache (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		if isFullError(err) {
			return fmt.Errorf("cache write for %q: %w", key, ErrQuotaExceeded)
		}
		return fmt.Errorf("unable to write cache key %q: %w", key, err)
	}
	return nil
}

// isFullError matches SQLite's disk-full family of errors (SQLITE_FULL).
func isFullError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database or disk is full") ||
		strings.Contains(msg, "disk I/O error")
}
