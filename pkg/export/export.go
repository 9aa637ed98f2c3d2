// Package export writes the study deck and word CSV for one export cycle.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/japaniel/podvocab/pkg/fsutil"
	"github.com/japaniel/podvocab/pkg/vocab"
)

// DefaultDeckName is the deck title used when none is configured.
const DefaultDeckName = "Podcast Vocabulary"

// Result lists the files written by Export.
type Result struct {
	CSVPath  string
	DeckPath string
}

// Exporter writes <dir>/<title>_words.csv and <dir>/<title>_cards.<ext>.
type Exporter struct {
	OutputDir string
	DeckName  string
	Deck      DeckWriter
	Logger    *slog.Logger
}

// Paths returns the output paths for title without writing anything.
func (e *Exporter) Paths(title string) Result {
	base := fsutil.SafeName(title)
	return Result{
		CSVPath:  filepath.Join(e.OutputDir, base+"_words.csv"),
		DeckPath: filepath.Join(e.OutputDir, base+"_cards."+e.Deck.Extension()),
	}
}

// Export writes the deck first and the CSV second, so a deck writer failure
// leaves any earlier CSV for the same title untouched. That failure is
// reported as a "deck" stage error.
func (e *Exporter) Export(ctx context.Context, title string, cands []vocab.Candidate) (Result, error) {
	if e.Deck == nil {
		return Result{}, fmt.Errorf("no deck writer configured")
	}
	res := e.Paths(title)
	data, err := EncodeCSV(cands)
	if err != nil {
		return Result{}, fmt.Errorf("encode csv: %w", err)
	}
	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}
	name := e.DeckName
	if name == "" {
		name = DefaultDeckName
	}
	if err := e.Deck.WriteDeck(ctx, res.DeckPath, NewDeck(name, cands)); err != nil {
		return Result{}, vocab.NewStageError("deck", err)
	}
	if err := fsutil.WriteFileAtomic(res.CSVPath, data, 0o644); err != nil {
		return Result{DeckPath: res.DeckPath}, fmt.Errorf("write csv: %w", err)
	}
	if e.Logger != nil {
		e.Logger.Info("export written", "csv", res.CSVPath, "deck", res.DeckPath, "words", len(cands))
	}
	return res, nil
}
