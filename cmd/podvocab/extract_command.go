package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/podvocab/pkg/dictionary"
	"github.com/japaniel/podvocab/pkg/export"
	"github.com/japaniel/podvocab/pkg/ledger"
	"github.com/japaniel/podvocab/pkg/logging"
	"github.com/japaniel/podvocab/pkg/vocab"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var unseenOnly bool
	var define bool

	cmd := &cobra.Command{
		Use:   "extract <transcript-file|transcript-url>",
		Short: "List rare words in a transcript without exporting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extractor, err := ctx.newExtractor()
			if err != nil {
				return err
			}
			source := ctx.newTranscriptSource()
			cands, total, err := extractor.ExtractFromSource(cmd.Context(), source, args[0])
			if err != nil {
				return err
			}

			common, err := ctx.commonWords()
			if err != nil {
				return err
			}
			assessment, err := vocab.Score(cands, total, common)
			known := err == nil
			if err != nil && !errors.Is(err, vocab.ErrInsufficientData) {
				return err
			}

			if unseenOnly {
				l, err := ctx.openLedger()
				if err != nil {
					return fmt.Errorf("open ledger: %w", err)
				}
				cands, err = ledger.FilterUnseen(cmd.Context(), l, cands)
				closeLedger(l, ctx.log())
				if err != nil && !errors.Is(err, vocab.ErrLedgerCorrupt) {
					return err
				}
				if err != nil {
					ctx.componentLogger("ledger").Warn("ledger unreadable; showing every word", logging.Error(err))
				}
			}
			if define {
				dictionary.Annotate(ctx.definer(), cands)
			}
			if limit > 0 && len(cands) > limit {
				cands = cands[:limit]
			}

			headers := []string{"Word", "Frequency", "Context"}
			aligns := []columnAlignment{alignLeft, alignRight, alignLeft}
			if define {
				headers = []string{"Word", "Frequency", "Definition", "Context"}
				aligns = []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}
			}
			rows := make([][]string, 0, len(cands))
			for _, c := range cands {
				row := []string{c.Word, export.FormatFrequency(c.Frequency)}
				if define {
					row = append(row, c.Definition)
				}
				rows = append(rows, append(row, c.Context))
			}

			out := cmd.OutOrStdout()
			writeRows(out, headers, rows, aligns)
			if isTerminal(out) {
				fmt.Fprintf(out, "%d words below %g from %d tokens, difficulty %s\n",
					len(rows), extractor.Threshold(), total, difficultyLabel(assessment, known))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n words")
	cmd.Flags().BoolVar(&unseenOnly, "unseen", false, "Hide words already in the seen-words ledger")
	cmd.Flags().BoolVar(&define, "define", false, "Look up definitions in the configured dictionary")
	return cmd
}
