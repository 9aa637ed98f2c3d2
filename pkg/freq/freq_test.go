package freq

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTableFrequencies(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader("# comment\nQuixotic\t2e-05\nzephyr 0.00003\nquixotic 0.5\n"))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if got := tbl.Frequency("quixotic"); got != 0.00002 {
		t.Errorf("expected first entry to win, got %v", got)
	}
	if got := tbl.Frequency("zephyr"); got != 0.00003 {
		t.Errorf("zephyr = %v", got)
	}
	if got := tbl.Frequency("missing"); got != 0 {
		t.Errorf("unknown word should be 0, got %v", got)
	}
}

func TestParseTableCounts(t *testing.T) {
	tbl, err := ParseTable(strings.NewReader("the 75\ndune 25\n"))
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if got := tbl.Frequency("dune"); got != 0.25 {
		t.Errorf("dune = %v, want 0.25", got)
	}
	if tbl.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", tbl.Len())
	}
}

func TestParseTableErrors(t *testing.T) {
	for _, in := range []string{"lonely\n", "word 1.5\n", "word abc\n"} {
		if _, err := ParseTable(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	if tbl.Frequency("x") != 0 {
		t.Fatal("nil table should report 0")
	}
}

func TestLoadWordSet(t *testing.T) {
	dir := t.TempDir()
	a1 := filepath.Join(dir, "a1.txt")
	a2 := filepath.Join(dir, "a2.txt")
	if err := os.WriteFile(a1, []byte("House\n# skip\n\ncat noun\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(a2, []byte("journey\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := LoadWordSet(a1, a2)
	if err != nil {
		t.Fatalf("LoadWordSet: %v", err)
	}
	for _, w := range []string{"house", "cat", "journey"} {
		if !set.Has(w) {
			t.Errorf("expected %q in set", w)
		}
	}
	if len(set) != 3 {
		t.Errorf("expected 3 words, got %d", len(set))
	}
	if _, err := LoadWordSet(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing list")
	}
}
