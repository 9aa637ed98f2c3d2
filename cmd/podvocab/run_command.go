package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/podvocab/pkg/media"
	"github.com/japaniel/podvocab/pkg/pipeline"
	"github.com/japaniel/podvocab/pkg/transcript"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
	".webm": true,
}

func isAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "run <episode-url|audio-file|transcript>",
		Short: "Download, transcribe and export new vocabulary for one episode",
		Long: `Run the full cycle for one episode.

An http(s) URL is downloaded with yt-dlp and transcribed with whisper. An audio
file is transcribed directly. Any other argument is read as a transcript.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := ctx.prepareTranscript(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if strings.TrimSpace(title) != "" {
				req.Title = title
			}
			return ctx.runPipeline(cmd, req)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title used for output file names")
	return cmd
}

// prepareTranscript downloads and transcribes as needed so that the returned
// request always points at a transcript file.
func (c *commandContext) prepareTranscript(ctx context.Context, input string) (pipeline.Request, error) {
	cfg := c.configValue()
	logger := c.componentLogger("media")

	audioPath, title := "", ""
	switch {
	case transcript.IsURL(input):
		audio, err := c.newDownloader().Download(ctx, input, cfg.Paths.AudioDir)
		if err != nil {
			return pipeline.Request{}, err
		}
		logger.Info("episode downloaded", "title", audio.Title, "path", audio.Path)
		audioPath, title = audio.Path, audio.Title
	case isAudioFile(input):
		audioPath = input
	default:
		return pipeline.Request{Ref: input}, nil
	}

	if _, err := c.newTranscriber().Transcribe(ctx, audioPath, cfg.Paths.TranscriptDir); err != nil {
		return pipeline.Request{}, err
	}
	out := media.TranscriptPath(audioPath, cfg.Paths.TranscriptDir)
	logger.Info("transcript written", "path", out)
	return pipeline.Request{Ref: out, Title: title}, nil
}

func (c *commandContext) runPipeline(cmd *cobra.Command, req pipeline.Request) error {
	p, l, err := c.newPipeline()
	if err != nil {
		return err
	}
	defer closeLedger(l, c.log())

	rep, err := p.Run(cmd.Context(), req)
	if err != nil {
		if transcript.IsUnavailable(err) {
			return fmt.Errorf("%w (check the transcript path or URL)", err)
		}
		return err
	}
	printReport(cmd.OutOrStdout(), rep)
	return nil
}
