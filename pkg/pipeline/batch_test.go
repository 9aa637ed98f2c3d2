package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

type stubTranscriber struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio, outDir string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, audio)
	s.mu.Unlock()
	if s.fail[audio] {
		return "", errors.New("whisper crashed")
	}
	return "text of " + audio, nil
}

func TestTranscribeBatchKeepsOrder(t *testing.T) {
	files := []string{"/a/one.mp3", "/a/two.mp3", "/a/three.mp3", "/a/four.mp3"}
	st := &stubTranscriber{fail: map[string]bool{"/a/three.mp3": true}}
	res, err := TranscribeBatch(context.Background(), st, files, "/out", 3)
	if err != nil {
		t.Fatalf("TranscribeBatch: %v", err)
	}
	if len(res) != len(files) || len(st.calls) != len(files) {
		t.Fatalf("expected %d results and calls, got %d/%d", len(files), len(res), len(st.calls))
	}
	for i, r := range res {
		if r.Audio != files[i] {
			t.Fatalf("result %d is %s, want %s", i, r.Audio, files[i])
		}
	}
	if res[2].Err == nil {
		t.Error("expected failure for three.mp3")
	}
	if res[0].TranscriptPath != filepath.Join("/out", "one.txt") {
		t.Errorf("transcript path = %q", res[0].TranscriptPath)
	}
}

func TestBatchDefaultsOutDirToAudioDir(t *testing.T) {
	res, err := TranscribeBatch(context.Background(), &stubTranscriber{}, []string{"/a/one.mp3"}, "", 0)
	if err != nil {
		t.Fatalf("TranscribeBatch: %v", err)
	}
	if res[0].TranscriptPath != filepath.Join("/a", "one.txt") {
		t.Fatalf("transcript path = %q", res[0].TranscriptPath)
	}
}

// failingPool always returns an error on Submit to simulate producer error.
type failingPool struct{}

func (f *failingPool) Start(ctx context.Context) {}
func (f *failingPool) Submit(job Job) error      { return errors.New("submit failed") }
func (f *failingPool) Close()                    {}
func (f *failingPool) SubmitCtx(ctx context.Context, job Job) error {
	return errors.New("submit failed")
}

func TestBatchSubmitError(t *testing.T) {
	b := &Batch{
		Transcriber: &stubTranscriber{},
		PoolFactory: func(workers, queue int) Pool { return &failingPool{} },
	}
	if _, err := b.Run(context.Background(), []string{"x.mp3"}); err == nil {
		t.Fatal("expected submit error")
	}
}
