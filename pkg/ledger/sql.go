package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/japaniel/podvocab/pkg/db"
	"github.com/japaniel/podvocab/pkg/vocab"
)

// SQLLedger stores seen words in sqlite.
//
// A damaged database file does not fail OpenSQL. Load then reports
// ErrLedgerCorrupt with an empty set, and the first write moves the bad file
// to <path>.corrupt and starts a fresh database.
type SQLLedger struct {
	path    string
	conn    *sql.DB
	corrupt error
	logger  *slog.Logger
}

// OpenSQL opens or creates the sqlite ledger at path.
func OpenSQL(path string, logger *slog.Logger) (*SQLLedger, error) {
	l := &SQLLedger{path: path, logger: nopLogger(logger)}
	conn, err := db.Open(path)
	if err != nil {
		if !db.IsCorrupt(err) {
			return nil, err
		}
		l.markCorrupt(err)
		return l, nil
	}
	l.conn = conn
	return l, nil
}

// NewSQL wraps an already migrated connection.
func NewSQL(conn *sql.DB, logger *slog.Logger) *SQLLedger {
	return &SQLLedger{conn: conn, logger: nopLogger(logger)}
}

func (l *SQLLedger) Load(ctx context.Context) (Seen, error) {
	if l.corrupt != nil {
		return NewSeen(), l.corruptErr()
	}
	words, err := db.LoadSeenWords(ctx, l.conn)
	if err != nil {
		if db.IsCorrupt(err) {
			l.markCorrupt(err)
			return NewSeen(), l.corruptErr()
		}
		return nil, err
	}
	return NewSeen(words...), nil
}

func (l *SQLLedger) markCorrupt(err error) {
	l.corrupt = err
	l.logger.Warn("seen-words ledger is corrupt; treating as empty", "path", l.path, "error", err)
}

func (l *SQLLedger) corruptErr() error {
	return fmt.Errorf("%w: %s: %v", vocab.ErrLedgerCorrupt, l.path, l.corrupt)
}

// rebuild moves a corrupt database aside and opens a fresh one in its place.
func (l *SQLLedger) rebuild() error {
	if l.corrupt == nil {
		return nil
	}
	if l.path == "" || l.path == ":memory:" {
		return l.corruptErr()
	}
	if l.conn != nil {
		_ = l.conn.Close()
		l.conn = nil
	}
	backup := l.path + ".corrupt"
	if err := os.Rename(l.path, backup); err != nil {
		return fmt.Errorf("preserve corrupt ledger: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(l.path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove stale %s file: %w", suffix, err)
		}
	}
	conn, err := db.Open(l.path)
	if err != nil {
		return fmt.Errorf("recreate ledger: %w", err)
	}
	l.conn, l.corrupt = conn, nil
	l.logger.Warn("corrupt ledger preserved before rewrite", "backup", backup)
	return nil
}

func (l *SQLLedger) MergeAndSave(ctx context.Context, cands []vocab.Candidate) error {
	return l.withTx(ctx, func(tx *sql.Tx) error {
		return l.insert(ctx, tx, cands)
	})
}

// MergeAndRecord merges cands and writes an export history row in one transaction.
func (l *SQLLedger) MergeAndRecord(ctx context.Context, cands []vocab.Candidate, rec ExportRecord) error {
	return l.withTx(ctx, func(tx *sql.Tx) error {
		if err := l.insert(ctx, tx, cands); err != nil {
			return err
		}
		return db.RecordExport(ctx, tx, db.Export{
			ID:          rec.RunID,
			Title:       rec.Title,
			CSVPath:     rec.CSVPath,
			DeckPath:    rec.DeckPath,
			WordCount:   rec.WordCount,
			TotalTokens: rec.TotalTokens,
			Score:       rec.Score,
			Tier:        rec.Tier,
			CreatedAt:   time.Now().UTC(),
		})
	})
}

// History returns the most recent exports, newest first.
func (l *SQLLedger) History(ctx context.Context, limit int) ([]db.Export, error) {
	if l.corrupt != nil {
		return nil, l.corruptErr()
	}
	return db.ListExports(ctx, l.conn, limit)
}

// Entries returns every seen word with its first-seen time.
func (l *SQLLedger) Entries(ctx context.Context) ([]db.SeenWord, error) {
	if l.corrupt != nil {
		return nil, l.corruptErr()
	}
	return db.ListSeenWords(ctx, l.conn)
}

// Count returns the number of seen words without loading them.
func (l *SQLLedger) Count(ctx context.Context) (int, error) {
	if l.corrupt != nil {
		return 0, l.corruptErr()
	}
	return db.CountSeenWords(ctx, l.conn)
}

func (l *SQLLedger) Close() error {
	if l == nil || l.conn == nil {
		return nil
	}
	return l.conn.Close()
}

func (l *SQLLedger) insert(ctx context.Context, tx *sql.Tx, cands []vocab.Candidate) error {
	n, err := db.InsertSeenWords(ctx, tx, vocab.Words(cands))
	if err != nil {
		return err
	}
	l.logger.Debug("ledger merged", "inserted", n, "offered", len(cands))
	return nil
}

func (l *SQLLedger) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	if err := l.rebuild(); err != nil {
		return err
	}
	tx, err := l.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}
	return nil
}
