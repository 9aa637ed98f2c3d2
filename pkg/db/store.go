package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LoadSeenWords returns every word in the ledger.
func LoadSeenWords(ctx context.Context, db DBExecutor) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT word FROM seen_words ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("query seen words: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertSeenWords adds words to the ledger, ignoring ones already present.
// It returns the number of rows actually inserted.
func InsertSeenWords(ctx context.Context, db DBExecutor, words []string) (int, error) {
	now := time.Now().UTC()
	inserted := 0
	for _, w := range words {
		trimmed := strings.TrimSpace(w)
		if trimmed == "" {
			return inserted, fmt.Errorf("word must be non-empty")
		}
		res, err := db.ExecContext(ctx,
			`INSERT INTO seen_words (word, first_seen_at) VALUES (?, ?) ON CONFLICT(word) DO NOTHING`,
			trimmed, now)
		if err != nil {
			return inserted, fmt.Errorf("insert seen word %q: %w", trimmed, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}

// CountSeenWords returns the ledger size.
func CountSeenWords(ctx context.Context, db DBExecutor) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen_words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count seen words: %w", err)
	}
	return n, nil
}

// ListSeenWords returns every ledger row with the time the word was first seen,
// ordered by word.
func ListSeenWords(ctx context.Context, db DBExecutor) ([]SeenWord, error) {
	rows, err := db.QueryContext(ctx, `SELECT word, first_seen_at FROM seen_words ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("query seen words: %w", err)
	}
	defer rows.Close()
	var out []SeenWord
	for rows.Next() {
		var sw SeenWord
		if err := rows.Scan(&sw.Word, &sw.FirstSeenAt); err != nil {
			return nil, err
		}
		out = append(out, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RecordExport inserts an export history row.
func RecordExport(ctx context.Context, db DBExecutor, e Export) error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("export id must be non-empty")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var score any
	if e.Score != nil {
		score = *e.Score
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO exports (id, title, csv_path, deck_path, word_count, total_tokens, score, tier, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.CSVPath, e.DeckPath, e.WordCount, e.TotalTokens, score, e.Tier, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// ListExports returns export history, newest first. limit <= 0 returns all rows.
func ListExports(ctx context.Context, db DBExecutor, limit int) ([]Export, error) {
	query := `SELECT id, title, csv_path, deck_path, word_count, total_tokens, score, tier, created_at
		FROM exports ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}
	defer rows.Close()
	var out []Export
	for rows.Next() {
		var e Export
		var csvPath, deckPath, tier sql.NullString
		var score sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.Title, &csvPath, &deckPath, &e.WordCount, &e.TotalTokens, &score, &tier, &e.CreatedAt); err != nil {
			return nil, err
		}
		if csvPath.Valid {
			e.CSVPath = csvPath.String
		}
		if deckPath.Valid {
			e.DeckPath = deckPath.String
		}
		if tier.Valid {
			e.Tier = tier.String
		}
		if score.Valid {
			v := score.Float64
			e.Score = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
