package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/japaniel/podvocab/pkg/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past exports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := ctx.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer closeLedger(l, ctx.log())

			sqlLedger, ok := l.(*ledger.SQLLedger)
			if !ok {
				return errors.New("export history needs a sqlite ledger (set paths.ledger to a .db file)")
			}
			exports, err := sqlLedger.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(exports) == 0 {
				fmt.Fprintln(out, "No exports recorded")
				return nil
			}

			rows := make([][]string, 0, len(exports))
			for _, e := range exports {
				score, tier := "-", "-"
				if e.Score != nil {
					score = strconv.FormatFloat(*e.Score, 'f', 2, 64)
					tier = e.Tier
				}
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					e.Title,
					strconv.Itoa(e.WordCount),
					strconv.Itoa(e.TotalTokens),
					score,
					tier,
					e.CSVPath,
				})
			}
			writeRows(out,
				[]string{"When", "Title", "Words", "Tokens", "Score", "Tier", "CSV"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
			)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of exports to show")
	return cmd
}
