package vocab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultRarityThreshold is the frequency below which a word is worth studying.
const DefaultRarityThreshold = 0.0001

// Extractor turns transcript text into ranked study candidates.
type Extractor struct {
	tokenizer Tokenizer
	oracle    Oracle
	threshold float64
	logger    *slog.Logger
	lower     cases.Caser
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithThreshold overrides the rarity threshold. Non-positive values are ignored.
func WithThreshold(threshold float64) ExtractorOption {
	return func(e *Extractor) {
		if threshold > 0 {
			e.threshold = threshold
		}
	}
}

// WithLogger sets the logger used for extraction summaries.
func WithLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an Extractor over the given collaborators.
func NewExtractor(tok Tokenizer, oracle Oracle, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		tokenizer: tok,
		oracle:    oracle,
		threshold: DefaultRarityThreshold,
		logger:    slog.New(slog.DiscardHandler),
		lower:     cases.Lower(language.Und),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the configured rarity threshold.
func (e *Extractor) Threshold() float64 { return e.threshold }

// Extract returns the candidates ordered rarest first and the number of
// alphabetic non-stopword tokens seen. Only the first occurrence of a
// qualifying lemma is kept; later occurrences never update it.
func (e *Extractor) Extract(text string) ([]Candidate, int, error) {
	tokens, err := e.tokenizer.Tokenize(text)
	if err != nil {
		return nil, 0, NewStageError("tokenize", err)
	}

	var (
		total  int
		out    []Candidate
		picked = make(map[string]struct{})
	)
	for _, tok := range tokens {
		if !tok.IsAlpha || tok.IsStop {
			continue
		}
		total++

		lemma := tok.Lemma
		if lemma == "" {
			lemma = tok.Surface
		}
		lemma = e.lower.String(strings.TrimSpace(lemma))
		if !alphabetic(lemma) {
			continue
		}
		if _, ok := picked[lemma]; ok {
			continue
		}

		freq := e.oracle.Frequency(lemma)
		if freq <= 0 || freq >= e.threshold {
			continue
		}
		picked[lemma] = struct{}{}
		out = append(out, Candidate{
			Word:      lemma,
			Frequency: freq,
			Context:   strings.TrimSpace(tok.Sentence),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Frequency < out[j].Frequency
	})

	e.logger.Debug("vocabulary extracted",
		slog.Int("tokens", len(tokens)),
		slog.Int("counted", total),
		slog.Int("candidates", len(out)),
		slog.Float64("threshold", e.threshold),
	)
	return out, total, nil
}

// TranscriptSource reads transcript text by path or URL.
type TranscriptSource interface {
	ReadText(ctx context.Context, ref string) (string, error)
}

// ExtractFromSource reads ref from src and extracts it. Read failures are
// reported as ErrTranscriptUnavailable.
func (e *Extractor) ExtractFromSource(ctx context.Context, src TranscriptSource, ref string) ([]Candidate, int, error) {
	text, err := src.ReadText(ctx, ref)
	if err != nil {
		if errors.Is(err, ErrTranscriptUnavailable) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%w: %s: %w", ErrTranscriptUnavailable, ref, err)
	}
	return e.Extract(text)
}

func alphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
