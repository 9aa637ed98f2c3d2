// Package ledger persists the set of words that have already been exported,
// so later decks never repeat them.
//
// The ledger assumes a single writer. The CSV backend holds a file lock while
// merging and sqlite serializes its own transactions, but two concurrent runs
// can still both filter against the same snapshot.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/japaniel/podvocab/pkg/vocab"
)

// Seen is the set of previously exported words.
type Seen map[string]struct{}

// NewSeen builds a set from words, ignoring blanks.
func NewSeen(words ...string) Seen {
	s := make(Seen, len(words))
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts a word.
func (s Seen) Add(word string) {
	if w := strings.TrimSpace(word); w != "" {
		s[w] = struct{}{}
	}
}

// Has reports whether word was exported before.
func (s Seen) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Len returns the number of words.
func (s Seen) Len() int { return len(s) }

// Words returns the words sorted.
func (s Seen) Words() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// FilterUnseen keeps the candidates whose word is not in the set, in order.
func (s Seen) FilterUnseen(cands []vocab.Candidate) []vocab.Candidate {
	out := make([]vocab.Candidate, 0, len(cands))
	for _, c := range cands {
		if !s.Has(c.Word) {
			out = append(out, c)
		}
	}
	return out
}

// Ledger is a persistent seen-words table.
type Ledger interface {
	// Load returns the persisted set. A missing ledger is an empty set. When
	// the stored data cannot be parsed, Load returns an empty set and an
	// error wrapping vocab.ErrLedgerCorrupt.
	Load(ctx context.Context) (Seen, error)
	// MergeAndSave persists the union of the stored set and cands' words.
	// It is idempotent and leaves the stored set untouched on failure.
	MergeAndSave(ctx context.Context, cands []vocab.Candidate) error
	Close() error
}

// ExportRecord describes a finished export cycle for ledgers that keep history.
type ExportRecord struct {
	RunID       string
	Title       string
	CSVPath     string
	DeckPath    string
	WordCount   int
	TotalTokens int
	Score       *float64
	Tier        string
}

// Recorder is implemented by ledgers that can store the merge and an export
// history row atomically.
type Recorder interface {
	MergeAndRecord(ctx context.Context, cands []vocab.Candidate, rec ExportRecord) error
}

// FilterUnseen loads the ledger and drops candidates already exported. A
// corrupt ledger is treated as empty: the full list is returned together with
// the ErrLedgerCorrupt error so callers can report it.
func FilterUnseen(ctx context.Context, l Ledger, cands []vocab.Candidate) ([]vocab.Candidate, error) {
	seen, err := l.Load(ctx)
	if err != nil {
		if errors.Is(err, vocab.ErrLedgerCorrupt) {
			return NewSeen().FilterUnseen(cands), err
		}
		return nil, err
	}
	return seen.FilterUnseen(cands), nil
}

// Open picks the backend by file extension: ".csv" uses the CSV ledger,
// anything else the sqlite ledger.
func Open(path string, logger *slog.Logger) (Ledger, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return NewCSV(path, logger), nil
	}
	return OpenSQL(path, logger)
}

// CandidatesFromWords wraps bare words, e.g. when importing an old ledger.
func CandidatesFromWords(words []string) []vocab.Candidate {
	out := make([]vocab.Candidate, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, vocab.Candidate{Word: w})
		}
	}
	return out
}

func nopLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
