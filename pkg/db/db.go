package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed migrations.sql
var migrationsSQL string

// ErrCorrupt marks a database file that is not sqlite, is damaged, or does
// not hold the expected tables.
var ErrCorrupt = errors.New("sqlite database corrupt")

// IsCorrupt reports whether err comes from a damaged or foreign database file.
func IsCorrupt(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCorrupt) || driverCorrupt(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "file is not a database") ||
		strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "malformed database schema")
}

// checkSchema fails when an existing file has tables with the wrong shape.
func checkSchema(conn *sql.DB) error {
	for _, q := range []string{
		"SELECT word, first_seen_at FROM seen_words LIMIT 0",
		"SELECT id, title, csv_path, deck_path, word_count, total_tokens, score, tier, created_at FROM exports LIMIT 0",
	} {
		rows, err := conn.Query(q)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		rows.Close()
	}
	return nil
}

// InitDB runs migrations on the given DB connection using the embedded SQL.
func InitDB(db *sql.DB) error {
	stmts := strings.Split(migrationsSQL, ";")
	for _, s := range stmts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Open opens (creating if needed) the sqlite database at path, applies
// pragmas and runs migrations. A file that is not a usable ledger database
// yields an error for which IsCorrupt reports true.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}
	conn, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps pragmas and :memory: databases consistent.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if err := InitDB(conn); err != nil {
		_ = conn.Close()
		if strings.Contains(err.Error(), "no such column") {
			return nil, fmt.Errorf("%w: migrate: %w", ErrCorrupt, err)
		}
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := checkSchema(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}
