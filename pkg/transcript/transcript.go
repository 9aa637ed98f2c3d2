// Package transcript reads episode transcripts from plain text files, saved
// HTML pages or web URLs.
package transcript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/japaniel/podvocab/pkg/analyzer"
	"github.com/japaniel/podvocab/pkg/fsutil"
	"github.com/japaniel/podvocab/pkg/vocab"
)

// MaxBodySize limits HTML pages read from the network or disk.
const MaxBodySize = 10 * 1024 * 1024

// Document is a loaded transcript.
type Document struct {
	Title string
	Text  string
}

// Source loads transcripts.
type Source struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSource returns a Source with a 30s HTTP timeout.
func NewSource(opts ...Option) *Source {
	s := &Source{
		client:    &http.Client{Timeout: 30 * time.Second},
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read loads ref. Failures wrap vocab.ErrTranscriptUnavailable.
func (s *Source) Read(ctx context.Context, ref string) (Document, error) {
	doc, err := s.read(ctx, ref)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s: %w", vocab.ErrTranscriptUnavailable, ref, err)
	}
	s.logger.Debug("transcript loaded", "ref", ref, "title", doc.Title, "chars", len(doc.Text))
	return doc, nil
}

// ReadText implements vocab.TranscriptSource.
func (s *Source) ReadText(ctx context.Context, ref string) (string, error) {
	doc, err := s.Read(ctx, ref)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

func (s *Source) read(ctx context.Context, ref string) (Document, error) {
	if IsURL(ref) {
		return s.fetch(ctx, ref)
	}
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".html", ".htm":
		f, err := os.Open(ref)
		if err != nil {
			return Document{}, err
		}
		defer f.Close()
		body, err := readLimited(f, -1)
		if err != nil {
			return Document{}, err
		}
		abs, err := filepath.Abs(ref)
		if err != nil {
			return Document{}, err
		}
		return parseHTML(body, &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, titleFromPath(ref))
	default:
		data, err := os.ReadFile(ref)
		if err != nil {
			return Document{}, err
		}
		return Document{Title: titleFromPath(ref), Text: string(data)}, nil
	}
}

func (s *Source) fetch(ctx context.Context, raw string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return Document{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := readLimited(resp.Body, resp.ContentLength)
	if err != nil {
		return Document{}, err
	}

	u, _ := url.Parse(raw)
	// Plain-text transcripts skip readability.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		return Document{Title: titleFromPath(u.Path), Text: string(body)}, nil
	}
	return parseHTML(body, u, titleFromPath(u.Path))
}

func readLimited(r io.Reader, contentLength int64) ([]byte, error) {
	if contentLength > MaxBodySize {
		return nil, fmt.Errorf("content length %d exceeds limit of %d bytes", contentLength, MaxBodySize)
	}
	body, err := io.ReadAll(io.LimitReader(r, MaxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("body exceeds limit of %d bytes", MaxBodySize)
	}
	return body, nil
}

func parseHTML(body []byte, u *url.URL, fallbackTitle string) (Document, error) {
	body = analyzer.SanitizeRuby(body)
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return Document{}, fmt.Errorf("extract article: %w", err)
	}
	// A page readability finds no article in is not a transcript.
	if strings.TrimSpace(article.TextContent) == "" {
		return Document{}, errors.New("no article text found")
	}
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = fallbackTitle
	}
	return Document{Title: title, Text: article.TextContent}, nil
}

// IsURL reports whether ref is an http(s) URL.
func IsURL(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func titleFromPath(p string) string {
	base := filepath.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Save writes a transcript to path atomically.
func Save(path, text string) error {
	if err := fsutil.WriteFileAtomic(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	return nil
}

// IsUnavailable reports whether err means the transcript could not be read.
func IsUnavailable(err error) bool {
	return errors.Is(err, vocab.ErrTranscriptUnavailable)
}
