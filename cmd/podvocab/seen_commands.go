package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/podvocab/pkg/ledger"
	"github.com/japaniel/podvocab/pkg/logging"
	"github.com/japaniel/podvocab/pkg/vocab"
)

func newSeenCommand(ctx *commandContext) *cobra.Command {
	seenCmd := &cobra.Command{
		Use:   "seen",
		Short: "Inspect and maintain the seen-words ledger",
	}
	seenCmd.AddCommand(newSeenListCommand(ctx))
	seenCmd.AddCommand(newSeenCountCommand(ctx))
	seenCmd.AddCommand(newSeenImportCommand(ctx))
	return seenCmd
}

func newSeenListCommand(ctx *commandContext) *cobra.Command {
	var dates bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print every seen word in sorted order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dates {
				return listSeenWithDates(cmd, ctx)
			}
			seen, err := ctx.loadSeen(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, w := range seen.Words() {
				fmt.Fprintln(out, w)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dates, "dates", false, "Show when each word was first seen (sqlite ledger only)")
	return cmd
}

func listSeenWithDates(cmd *cobra.Command, ctx *commandContext) error {
	l, err := ctx.openLedger()
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer closeLedger(l, ctx.log())

	sqlLedger, ok := l.(*ledger.SQLLedger)
	if !ok {
		return errors.New("first-seen dates need a sqlite ledger (set paths.ledger to a .db file)")
	}
	entries, err := sqlLedger.Entries(cmd.Context())
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Word, e.FirstSeenAt.Local().Format("2006-01-02")})
	}
	writeRows(cmd.OutOrStdout(), []string{"Word", "First seen"}, rows, []columnAlignment{alignLeft, alignLeft})
	return nil
}

func newSeenCountCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of seen words",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := ctx.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer closeLedger(l, ctx.log())

			if counter, ok := l.(interface {
				Count(context.Context) (int, error)
			}); ok {
				n, err := counter.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			}
			seen, err := l.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), seen.Len())
			return nil
		},
	}
}

func newSeenImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <seen_words.csv>...",
		Short: "Merge words from CSV ledgers into the configured ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.componentLogger("ledger")
			words := ledger.NewSeen()
			for _, path := range args {
				src := ledger.NewCSV(path, logger)
				logger.Info("importing seen words", "path", src.Path())
				seen, err := src.Load(cmd.Context())
				src.Close()
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				for _, w := range seen.Words() {
					words.Add(w)
				}
			}

			l, err := ctx.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer closeLedger(l, logger)

			before, err := l.Load(cmd.Context())
			if err != nil {
				if !errors.Is(err, vocab.ErrLedgerCorrupt) {
					return err
				}
				logger.Warn("seen-words ledger unreadable; import starts a fresh one", logging.Error(err))
			}
			if err := l.MergeAndSave(cmd.Context(), ledger.CandidatesFromWords(words.Words())); err != nil {
				return err
			}
			added := 0
			for _, w := range words.Words() {
				if !before.Has(w) {
					added++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new words (%d read)\n", added, words.Len())
			return nil
		},
	}
}

func (c *commandContext) loadSeen(cmd *cobra.Command) (ledger.Seen, error) {
	l, err := c.openLedger()
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer closeLedger(l, c.log())
	return l.Load(cmd.Context())
}
