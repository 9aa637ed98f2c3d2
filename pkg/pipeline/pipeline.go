// Package pipeline runs one export cycle: read a transcript, extract rare
// words, score difficulty, drop words already exported, write the deck and
// CSV, then record the new words in the ledger.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/japaniel/podvocab/pkg/dictionary"
	"github.com/japaniel/podvocab/pkg/export"
	"github.com/japaniel/podvocab/pkg/ledger"
	"github.com/japaniel/podvocab/pkg/logging"
	"github.com/japaniel/podvocab/pkg/transcript"
	"github.com/japaniel/podvocab/pkg/vocab"
)

// Reader loads a transcript document.
type Reader interface {
	Read(ctx context.Context, ref string) (transcript.Document, error)
}

// Request names the transcript for one cycle.
type Request struct {
	// Ref is a transcript path or URL.
	Ref string
	// Title overrides the document title for output file names.
	Title string
}

// Report summarizes a cycle.
type Report struct {
	RunID       string
	Title       string
	TotalTokens int
	// Candidates is every rare word found, before ledger filtering.
	Candidates []vocab.Candidate
	// Unseen is what was exported.
	Unseen          []vocab.Candidate
	Assessment      vocab.Assessment
	AssessmentKnown bool
	// LedgerCorrupt is set when the ledger could not be read and was treated as empty.
	LedgerCorrupt bool
	CSVPath       string
	DeckPath      string
}

// Exported reports whether any files were written.
func (r *Report) Exported() bool { return r != nil && r.CSVPath != "" }

// Pipeline wires the collaborators of an export cycle.
type Pipeline struct {
	Reader    Reader
	Extractor *vocab.Extractor
	Ledger    ledger.Ledger
	Exporter  *export.Exporter
	// Common is the reference set of easy words used for scoring. May be nil.
	Common vocab.WordSet
	// Definer is optional.
	Definer dictionary.Definer
	Logger  *slog.Logger
}

// Run executes one synchronous cycle. The ledger is written last, so any
// failure before that leaves it untouched. ctx is checked between stages.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	rep := &Report{RunID: uuid.NewString()}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(logging.FieldRunID, rep.RunID)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := p.Reader.Read(ctx, req.Ref)
	if err != nil {
		return nil, vocab.NewStageError("read", err)
	}
	rep.Title = strings.TrimSpace(req.Title)
	if rep.Title == "" {
		rep.Title = doc.Title
	}
	logger.Info("transcript loaded", "ref", req.Ref, "title", rep.Title, "chars", len(doc.Text))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cands, total, err := p.Extractor.Extract(doc.Text)
	if err != nil {
		return nil, err
	}
	rep.Candidates, rep.TotalTokens = cands, total
	logger.Info("extraction finished", "candidates", len(cands), "tokens", total)

	assessment, err := vocab.Score(cands, total, p.Common)
	switch {
	case err == nil:
		rep.Assessment, rep.AssessmentKnown = assessment, true
		logger.Info("difficulty assessed", "score", assessment.Score, "tier", assessment.Tier.String())
	case errors.Is(err, vocab.ErrInsufficientData):
		logger.Warn("difficulty unknown", logging.Error(err))
	default:
		return nil, vocab.NewStageError("score", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	unseen, err := ledger.FilterUnseen(ctx, p.Ledger, cands)
	if err != nil {
		if !errors.Is(err, vocab.ErrLedgerCorrupt) {
			return nil, vocab.NewStageError("ledger", err)
		}
		rep.LedgerCorrupt = true
		logger.Warn("seen-words ledger unreadable; treating as empty", logging.Error(err))
	}
	rep.Unseen = unseen
	logger.Info("ledger filter applied", "unseen", len(unseen), "seen", len(cands)-len(unseen))

	if len(unseen) == 0 {
		logger.Info("no new words; nothing exported")
		return rep, nil
	}
	if n := dictionary.Annotate(p.Definer, rep.Unseen); n > 0 {
		logger.Debug("definitions attached", "count", n)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := p.Exporter.Export(ctx, rep.Title, rep.Unseen)
	if err != nil {
		var se *vocab.StageError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, vocab.NewStageError("export", err)
	}
	rep.CSVPath, rep.DeckPath = res.CSVPath, res.DeckPath

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.merge(ctx, rep); err != nil {
		return nil, vocab.NewStageError("ledger", err)
	}
	logger.Info("ledger updated", "added", len(rep.Unseen))
	return rep, nil
}

func (p *Pipeline) merge(ctx context.Context, rep *Report) error {
	rec, ok := p.Ledger.(ledger.Recorder)
	if !ok {
		return p.Ledger.MergeAndSave(ctx, rep.Unseen)
	}
	er := ledger.ExportRecord{
		RunID:       rep.RunID,
		Title:       rep.Title,
		CSVPath:     rep.CSVPath,
		DeckPath:    rep.DeckPath,
		WordCount:   len(rep.Unseen),
		TotalTokens: rep.TotalTokens,
	}
	if rep.AssessmentKnown {
		score := rep.Assessment.Score
		er.Score = &score
		er.Tier = rep.Assessment.Tier.String()
	}
	return rec.MergeAndRecord(ctx, rep.Unseen, er)
}
