package main

import (
	"fmt"
	"io"

	"github.com/japaniel/podvocab/pkg/pipeline"
	"github.com/japaniel/podvocab/pkg/vocab"
)

func printReport(out io.Writer, rep *pipeline.Report) {
	fmt.Fprintf(out, "Title: %s\n", rep.Title)
	fmt.Fprintf(out, "Tokens: %d  Rare words: %d  New: %d\n", rep.TotalTokens, len(rep.Candidates), len(rep.Unseen))
	fmt.Fprintf(out, "Difficulty: %s\n", difficultyLabel(rep.Assessment, rep.AssessmentKnown))
	if rep.LedgerCorrupt {
		fmt.Fprintln(out, "Warning: seen-words ledger was unreadable and treated as empty")
	}
	if !rep.Exported() {
		fmt.Fprintln(out, "No new words; nothing exported")
		return
	}
	fmt.Fprintf(out, "CSV: %s\n", rep.CSVPath)
	fmt.Fprintf(out, "Deck: %s\n", rep.DeckPath)
}

func difficultyLabel(a vocab.Assessment, known bool) string {
	if !known {
		return "unknown (no scorable tokens)"
	}
	return fmt.Sprintf("%.2f%% (%s)", a.Score, a.Tier)
}
