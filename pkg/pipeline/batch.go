package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/japaniel/podvocab/pkg/media"
)

// Transcriber turns one audio file into text, writing it under outDir.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outDir string) (string, error)
}

// BatchResult is the outcome for one audio file.
type BatchResult struct {
	Audio          string
	TranscriptPath string
	Err            error
}

// Batch transcribes many audio files concurrently.
type Batch struct {
	Transcriber Transcriber
	OutDir      string
	Workers     int
	Logger      *slog.Logger
	// OnProgress is called after each file with the number done so far.
	// It may be called from several goroutines at once.
	OnProgress func(done, total int)

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) Pool
}

// TranscribeBatch transcribes files with the default pool.
func TranscribeBatch(ctx context.Context, t Transcriber, files []string, outDir string, workers int) ([]BatchResult, error) {
	b := &Batch{Transcriber: t, OutDir: outDir, Workers: workers}
	return b.Run(ctx, files)
}

// Run returns one result per input file, in input order. Per-file failures
// are reported in BatchResult.Err; the returned error is set only when jobs
// could not be scheduled or ctx was canceled.
func (b *Batch) Run(ctx context.Context, files []string) ([]BatchResult, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := b.Workers
	if workers <= 0 {
		workers = 1
	}

	var wp Pool
	if b.PoolFactory != nil {
		wp = b.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wp.Start(ctx)

	results := make([]BatchResult, len(files))
	var done int64
	var submitErr error
	for i, f := range files {
		i, f := i, f
		results[i].Audio = f
		err := wp.SubmitCtx(ctx, func(ctx context.Context) error {
			logger.Info("transcribing", "audio", f)
			if _, err := b.Transcriber.Transcribe(ctx, f, b.OutDir); err != nil {
				logger.Warn("transcription failed", "audio", f, "error", err)
				results[i].Err = err
			} else {
				outDir := b.OutDir
				if outDir == "" {
					outDir = filepath.Dir(f)
				}
				results[i].TranscriptPath = media.TranscriptPath(f, outDir)
			}
			n := atomic.AddInt64(&done, 1)
			if b.OnProgress != nil {
				b.OnProgress(int(n), len(files))
			}
			return results[i].Err
		})
		if err != nil {
			submitErr = err
			cancel()
			break
		}
	}
	wp.Close()

	if submitErr != nil {
		return results, submitErr
	}
	if err := ctx.Err(); err != nil && int(atomic.LoadInt64(&done)) < len(files) {
		return results, err
	}
	return results, nil
}
