package ledger

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/japaniel/podvocab/pkg/vocab"
)

func generateBenchmarkWords(n, offset int) []vocab.Candidate {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%c%c%c", 'a'+(i+offset)%26, 'a'+(i+offset)/26%26, 'a'+(i+offset)/676%26)
	}
	return CandidatesFromWords(words)
}

// One podcast episode yields a few hundred new words; the ledger grows to
// several thousand over a season.
func benchmarkMerge(b *testing.B, newLedger func(dir string) Ledger) {
	ctx := context.Background()
	existing := generateBenchmarkWords(5000, 0)
	episode := generateBenchmarkWords(300, 5000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		l := newLedger(b.TempDir())
		if err := l.MergeAndSave(ctx, existing); err != nil {
			b.Fatalf("seed ledger: %v", err)
		}
		b.StartTimer()

		unseen, err := FilterUnseen(ctx, l, episode)
		if err != nil {
			b.Fatalf("filter: %v", err)
		}
		if err := l.MergeAndSave(ctx, unseen); err != nil {
			b.Fatalf("merge: %v", err)
		}

		b.StopTimer()
		l.Close()
		b.StartTimer()
	}
}

func BenchmarkSQLLedgerMerge(b *testing.B) {
	benchmarkMerge(b, func(dir string) Ledger {
		l, err := OpenSQL(filepath.Join(dir, "seen.db"), nil)
		if err != nil {
			b.Fatalf("open sql ledger: %v", err)
		}
		return l
	})
}

func BenchmarkCSVLedgerMerge(b *testing.B) {
	benchmarkMerge(b, func(dir string) Ledger {
		return NewCSV(filepath.Join(dir, "seen_words.csv"), nil)
	})
}
