package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "download <episode-url>...",
		Short: "Download episode audio as mp3",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := dir
			if target == "" {
				target = ctx.configValue().Paths.AudioDir
			}
			d := ctx.newDownloader()
			out := cmd.OutOrStdout()
			for _, url := range args {
				audio, err := d.Download(cmd.Context(), url, target)
				if err != nil {
					return fmt.Errorf("%s: %w", url, err)
				}
				fmt.Fprintf(out, "%s\t%s\n", audio.Title, audio.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Destination directory (defaults to paths.audio_dir)")
	return cmd
}
