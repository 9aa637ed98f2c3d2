package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/japaniel/podvocab/pkg/fsutil"
	"github.com/japaniel/podvocab/pkg/vocab"
)

// DefaultDownloader is the yt-dlp binary name.
const DefaultDownloader = "yt-dlp"

// Audio is a downloaded episode.
type Audio struct {
	Title string
	Path  string
}

// Downloader fetches episode audio as mp3 with yt-dlp.
type Downloader struct {
	binary string
	run    CommandRunner
}

// NewDownloader returns a downloader for binary (yt-dlp when empty).
func NewDownloader(binary string) *Downloader {
	if binary == "" {
		binary = DefaultDownloader
	}
	return &Downloader{binary: binary, run: runCommand}
}

// WithCommandRunner sets a custom command runner (for testing).
func (d *Downloader) WithCommandRunner(r CommandRunner) *Downloader {
	if r != nil {
		d.run = r
	}
	return d
}

// Title asks yt-dlp for the episode title without downloading.
func (d *Downloader) Title(ctx context.Context, url string) (string, error) {
	out, err := d.run(ctx, d.binary, "--get-filename", "-o", "%(title)s", url)
	if err != nil {
		return "", vocab.NewStageError("download", err)
	}
	title := strings.TrimSpace(string(out))
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	if title == "" {
		return "", vocab.NewStageError("download", errors.New("yt-dlp returned no title"))
	}
	return title, nil
}

// Download stores the episode audio as <dir>/<title>.mp3.
func (d *Downloader) Download(ctx context.Context, url, dir string) (Audio, error) {
	title, err := d.Title(ctx, url)
	if err != nil {
		return Audio{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Audio{}, vocab.NewStageError("download", fmt.Errorf("ensure audio dir: %w", err))
	}
	stem := filepath.Join(dir, fsutil.SafeName(title))
	args := []string{
		"--extract-audio",
		"--audio-format", "mp3",
		"--no-keep-video",
		"--rm-cache-dir",
		"--output", stem + ".%(ext)s",
		url,
	}
	if _, err := d.run(ctx, d.binary, args...); err != nil {
		return Audio{}, vocab.NewStageError("download", err)
	}
	path := stem + ".mp3"
	if _, err := os.Stat(path); err != nil {
		return Audio{}, vocab.NewStageError("download", fmt.Errorf("expected audio at %s: %w", path, err))
	}
	return Audio{Title: title, Path: path}, nil
}
