package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/japaniel/podvocab/pkg/media"
	"github.com/japaniel/podvocab/pkg/pipeline"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var dir string
	var outDir string
	var workers int

	cmd := &cobra.Command{
		Use:   "transcribe [audio-file...]",
		Short: "Transcribe audio files with whisper",
		Long: `Transcribe the given audio files. With no arguments every mp3 file in
--dir (or paths.audio_dir) is transcribed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			files := args
			if len(files) == 0 {
				source := dir
				if source == "" {
					source = cfg.Paths.AudioDir
				}
				found, err := media.ListAudio(source)
				if err != nil {
					return fmt.Errorf("list audio in %s: %w", source, err)
				}
				if len(found) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No mp3 files in %s\n", source)
					return nil
				}
				files = found
			}
			if outDir == "" {
				outDir = cfg.Paths.TranscriptDir
			}
			if workers <= 0 {
				workers = cfg.Media.Workers
			}

			logger := ctx.componentLogger("transcribe")
			transcriber := ctx.newTranscriber()
			logger.Info("transcribing audio", "files", len(files), "model", transcriber.Model(), "workers", workers)
			batch := &pipeline.Batch{
				Transcriber: transcriber,
				OutDir:      outDir,
				Workers:     workers,
				Logger:      logger,
				OnProgress: func(done, total int) {
					logger.Info("transcription progress", "done", done, "total", total)
				},
			}
			results, err := batch.Run(cmd.Context(), files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(out, "FAILED\t%s\t%v\n", r.Audio, r.Err)
					continue
				}
				fmt.Fprintf(out, "ok\t%s\t%s\n", r.Audio, r.TranscriptPath)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d transcriptions failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory of mp3 files (defaults to paths.audio_dir)")
	cmd.Flags().StringVar(&outDir, "out", "", "Transcript directory (defaults to paths.transcript_dir)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent whisper processes (defaults to media.workers)")
	return cmd
}
