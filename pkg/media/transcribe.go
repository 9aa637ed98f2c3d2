package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/japaniel/podvocab/pkg/vocab"
)

const (
	// DefaultTranscriber is the openai-whisper CLI.
	DefaultTranscriber = "whisper"
	// DefaultModel balances speed and accuracy for spoken English.
	DefaultModel = "small"
	// DefaultLanguage is passed to whisper's --language flag.
	DefaultLanguage = "English"
)

// TranscriberConfig configures the whisper CLI.
type TranscriberConfig struct {
	Binary   string
	Model    string
	Language string
}

// Transcriber runs whisper on an audio file and returns the text.
type Transcriber struct {
	cfg TranscriberConfig
	run CommandRunner
}

// NewTranscriber applies defaults for empty fields.
func NewTranscriber(cfg TranscriberConfig) *Transcriber {
	if cfg.Binary == "" {
		cfg.Binary = DefaultTranscriber
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &Transcriber{cfg: cfg, run: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcriber) WithCommandRunner(r CommandRunner) *Transcriber {
	if r != nil {
		t.run = r
	}
	return t
}

// Model returns the configured model name for logging.
func (t *Transcriber) Model() string { return t.cfg.Model }

// Transcribe writes <outDir>/<audio base>.txt and returns its text.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, outDir string) (string, error) {
	if audioPath == "" {
		return "", vocab.NewStageError("transcribe", errors.New("audio path required"))
	}
	if outDir == "" {
		outDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", vocab.NewStageError("transcribe", fmt.Errorf("ensure output dir: %w", err))
	}
	args := []string{
		audioPath,
		"--model", t.cfg.Model,
		"--language", t.cfg.Language,
		"--output_format", "txt",
		"--output_dir", outDir,
	}
	if _, err := t.run(ctx, t.cfg.Binary, args...); err != nil {
		return "", vocab.NewStageError("transcribe", err)
	}
	out := TranscriptPath(audioPath, outDir)
	data, err := os.ReadFile(out)
	if err != nil {
		return "", vocab.NewStageError("transcribe", fmt.Errorf("read whisper output: %w", err))
	}
	return strings.TrimSpace(string(data)), nil
}

// TranscriptPath is where whisper writes the text for audioPath.
func TranscriptPath(audioPath, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(outDir, base+".txt")
}

// ListAudio returns the mp3 files directly inside dir, sorted by name.
func ListAudio(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".mp3") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
