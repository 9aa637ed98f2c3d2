package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/podvocab/pkg/dictionary"
)

func newDictCommand(ctx *commandContext) *cobra.Command {
	dictCmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage the definitions dictionary",
	}
	dictCmd.AddCommand(newDictFetchCommand(ctx))
	return dictCmd
}

func newDictFetchCommand(ctx *commandContext) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the dictionary for vocab.language if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			target := path
			if target == "" {
				target = cfg.Vocab.Dictionary
			}
			if target == "" {
				return errors.New("vocab.dictionary is not set; pass --path or edit the config")
			}
			rel, err := dictionary.ReleaseFor(cfg.Vocab.Language)
			if err != nil {
				return err
			}
			d := dictionary.NewDownloader(ctx.componentLogger("dictionary"))
			if err := d.EnsureDictionary(cmd.Context(), target, rel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dictionary ready at %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "Destination file (defaults to vocab.dictionary)")
	return cmd
}
