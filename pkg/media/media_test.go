package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/japaniel/podvocab/pkg/vocab"
)

type call struct {
	name string
	args []string
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()
	var calls []call
	runner := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, call{name, args})
		if args[0] == "--get-filename" {
			return []byte("Episode 5: Wind\n"), nil
		}
		// Simulate yt-dlp writing the converted file.
		out := args[len(args)-2]
		return nil, os.WriteFile(strings.Replace(out, "%(ext)s", "mp3", 1), []byte("ID3"), 0o644)
	}
	d := NewDownloader("").WithCommandRunner(runner)
	audio, err := d.Download(context.Background(), "https://example.com/ep5", dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if audio.Title != "Episode 5: Wind" {
		t.Errorf("title = %q", audio.Title)
	}
	if audio.Path != filepath.Join(dir, "Episode 5_ Wind.mp3") {
		t.Errorf("path = %q", audio.Path)
	}
	if len(calls) != 2 || calls[1].name != "yt-dlp" {
		t.Fatalf("unexpected calls %+v", calls)
	}
	joined := strings.Join(calls[1].args, " ")
	for _, flag := range []string{"--extract-audio", "--audio-format mp3", "--no-keep-video", "--rm-cache-dir"} {
		if !strings.Contains(joined, flag) {
			t.Errorf("missing %s in %q", flag, joined)
		}
	}
}

func TestDownloadFailure(t *testing.T) {
	runner := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("network unreachable")
	}
	_, err := NewDownloader("").WithCommandRunner(runner).Download(context.Background(), "u", t.TempDir())
	var se *vocab.StageError
	if !errors.As(err, &se) || se.Stage != "download" {
		t.Fatalf("expected download stage error, got %v", err)
	}
}

func TestTranscribe(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "ep.mp3")
	outDir := filepath.Join(dir, "transcripts")
	var got []string
	runner := func(ctx context.Context, name string, args ...string) ([]byte, error) {
		got = append([]string{name}, args...)
		return nil, os.WriteFile(filepath.Join(outDir, "ep.txt"), []byte(" Hello there.\n"), 0o644)
	}
	tr := NewTranscriber(TranscriberConfig{}).WithCommandRunner(runner)
	text, err := tr.Transcribe(context.Background(), audio, outDir)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "Hello there." {
		t.Errorf("text = %q", text)
	}
	want := "whisper " + audio + " --model small --language English --output_format txt --output_dir " + outDir
	if strings.Join(got, " ") != want {
		t.Errorf("command = %q", strings.Join(got, " "))
	}
}

func TestTranscribeMissingOutput(t *testing.T) {
	runner := func(ctx context.Context, name string, args ...string) ([]byte, error) { return nil, nil }
	_, err := NewTranscriber(TranscriberConfig{}).WithCommandRunner(runner).
		Transcribe(context.Background(), filepath.Join(t.TempDir(), "a.mp3"), "")
	if !errors.Is(err, vocab.ErrCollaborator) {
		t.Fatalf("expected collaborator error, got %v", err)
	}
}

func TestListAudio(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp3", "a.MP3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}
	files, err := ListAudio(dir)
	if err != nil {
		t.Fatalf("ListAudio: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.MP3" || filepath.Base(files[1]) != "b.mp3" {
		t.Fatalf("unexpected files %v", files)
	}
}
