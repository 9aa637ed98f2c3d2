package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/japaniel/podvocab/pkg/fsutil"
	"github.com/japaniel/podvocab/pkg/pipeline"
	"github.com/japaniel/podvocab/pkg/transcript"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var title string
	var save bool

	cmd := &cobra.Command{
		Use:   "export <transcript-file|transcript-url>",
		Short: "Export words not seen before from an existing transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := pipeline.Request{Ref: args[0], Title: title}
			if save && transcript.IsURL(req.Ref) {
				saved, err := ctx.saveTranscript(cmd, req)
				if err != nil {
					return err
				}
				req = saved
			}
			return ctx.runPipeline(cmd, req)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title used for output file names")
	cmd.Flags().BoolVar(&save, "save", false, "Keep a copy of a fetched transcript in paths.transcript_dir")
	return cmd
}

// saveTranscript fetches a transcript URL once and stores the text so the
// export reads the local copy.
func (c *commandContext) saveTranscript(cmd *cobra.Command, req pipeline.Request) (pipeline.Request, error) {
	doc, err := c.newTranscriptSource().Read(cmd.Context(), req.Ref)
	if err != nil {
		return req, err
	}
	if req.Title == "" {
		req.Title = doc.Title
	}
	path := filepath.Join(c.configValue().Paths.TranscriptDir, fsutil.SafeName(req.Title)+".txt")
	if err := transcript.Save(path, doc.Text); err != nil {
		return req, err
	}
	c.componentLogger("transcript").Info("transcript saved", "url", req.Ref, "path", path)
	req.Ref = path
	return req, nil
}
