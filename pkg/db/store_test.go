package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestInitDBCreatesTables(t *testing.T) {
	conn := setupTestDB(t)
	for _, table := range []string{"seen_words", "exports"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
	// Re-running migrations must be harmless.
	if err := InitDB(conn); err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
}

func TestInsertSeenWordsDedupes(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)

	n, err := InsertSeenWords(ctx, conn, []string{"zephyr", "quixotic", "zephyr"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 inserted, got %d", n)
	}
	n, err = InsertSeenWords(ctx, conn, []string{"quixotic", "dune"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 inserted, got %d", n)
	}

	words, err := LoadSeenWords(ctx, conn)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"dune", "quixotic", "zephyr"}
	if len(words) != len(want) {
		t.Fatalf("got %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("got %v, want %v", words, want)
		}
	}
	count, err := CountSeenWords(ctx, conn)
	if err != nil || count != 3 {
		t.Fatalf("count = %d, %v", count, err)
	}
}

func TestListSeenWordsHasFirstSeen(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	before := time.Now().UTC().Add(-time.Minute)
	if _, err := InsertSeenWords(ctx, conn, []string{"zephyr", "dune"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	rows, err := ListSeenWords(ctx, conn)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].Word != "dune" || rows[1].Word != "zephyr" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	for _, r := range rows {
		if r.FirstSeenAt.Before(before) {
			t.Errorf("%s: first seen %v is before insert", r.Word, r.FirstSeenAt)
		}
	}
}

func TestInsertSeenWordsRejectsEmpty(t *testing.T) {
	conn := setupTestDB(t)
	if _, err := InsertSeenWords(context.Background(), conn, []string{" "}); err == nil {
		t.Fatal("expected error for empty word")
	}
}

func TestInsertSeenWordsTxRollback(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := InsertSeenWords(ctx, tx, []string{"ephemeral"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	count, err := CountSeenWords(ctx, conn)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback to leave ledger empty, got %d", count)
	}
}

func TestRecordAndListExports(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	score := 12.5
	older := Export{ID: "a", Title: "Episode 1", CSVPath: "out/e1_words.csv", WordCount: 3, TotalTokens: 40,
		Score: &score, Tier: "Hard", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := Export{ID: "b", Title: "Episode 2", WordCount: 1, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	for _, e := range []Export{older, newer} {
		if err := RecordExport(ctx, conn, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := ListExports(ctx, conn, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "a" {
		t.Fatalf("expected newest first, got %s,%s", got[0].ID, got[1].ID)
	}
	if got[0].Score != nil {
		t.Errorf("expected nil score for unassessed export")
	}
	if got[1].Score == nil || *got[1].Score != 12.5 || got[1].Tier != "Hard" {
		t.Errorf("unexpected assessment %+v", got[1])
	}

	limited, err := ListExports(ctx, conn, 1)
	if err != nil {
		t.Fatalf("list limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 export, got %d", len(limited))
	}

	if err := RecordExport(ctx, conn, Export{}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	conn, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer conn.Close()
	if _, err := InsertSeenWords(context.Background(), conn, []string{"word"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
}
