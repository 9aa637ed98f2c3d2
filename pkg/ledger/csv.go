package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/japaniel/podvocab/pkg/fsutil"
	"github.com/japaniel/podvocab/pkg/vocab"
)

const wordColumn = "word"

// CSVLedger stores seen words in a one-column CSV file with a "word" header.
type CSVLedger struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewCSV returns a ledger backed by the CSV file at path. The file is created
// on the first merge.
func NewCSV(path string, logger *slog.Logger) *CSVLedger {
	return &CSVLedger{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: nopLogger(logger),
	}
}

// Path returns the ledger file path.
func (l *CSVLedger) Path() string { return l.path }

func (l *CSVLedger) Load(ctx context.Context) (Seen, error) {
	words, err := l.read()
	if err != nil {
		if errors.Is(err, vocab.ErrLedgerCorrupt) {
			l.logger.Warn("seen-words ledger is corrupt; treating as empty", "path", l.path, "error", err)
			return NewSeen(), err
		}
		return nil, err
	}
	return NewSeen(words...), nil
}

func (l *CSVLedger) MergeAndSave(ctx context.Context, cands []vocab.Candidate) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	ok, err := l.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock ledger: %w", err)
	}
	if !ok {
		return fmt.Errorf("lock ledger: %s is busy", l.path)
	}
	defer func() { _ = l.lock.Unlock() }()

	existing, err := l.read()
	if err != nil {
		if !errors.Is(err, vocab.ErrLedgerCorrupt) {
			return err
		}
		backup := l.path + ".corrupt"
		if err := copyFile(l.path, backup); err != nil {
			return fmt.Errorf("preserve corrupt ledger: %w", err)
		}
		l.logger.Warn("corrupt ledger preserved before rewrite", "backup", backup)
		existing = nil
	}

	seen := NewSeen()
	merged := make([]string, 0, len(existing)+len(cands))
	for _, w := range append(existing, vocab.Words(cands)...) {
		w = strings.TrimSpace(w)
		if w == "" || seen.Has(w) {
			continue
		}
		seen.Add(w)
		merged = append(merged, w)
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write([]string{wordColumn}); err != nil {
		return err
	}
	for _, w := range merged {
		if err := cw.Write([]string{w}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(l.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	l.logger.Debug("ledger merged", "path", l.path, "words", len(merged), "previous", len(existing))
	return nil
}

func (l *CSVLedger) Close() error { return l.lock.Close() }

// read returns the stored words in file order. A missing file is empty.
func (l *CSVLedger) read() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", vocab.ErrLedgerCorrupt, l.path, err)
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), wordColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %s: missing %q column", vocab.ErrLedgerCorrupt, l.path, wordColumn)
	}

	var words []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", vocab.ErrLedgerCorrupt, l.path, err)
		}
		if col >= len(rec) {
			continue
		}
		if w := strings.TrimSpace(rec[col]); w != "" {
			words = append(words, w)
		}
	}
	return words, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(dst, data, 0o644)
}
