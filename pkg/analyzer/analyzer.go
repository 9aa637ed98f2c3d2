// Package analyzer splits transcript text into sentences and tokens with
// lemmas, stopword flags and the enclosing sentence for each token.
package analyzer

import (
	"fmt"
	"strings"
	"unicode"
)

// Token represents a single analyzed unit of text.
type Token struct {
	Surface       string   // The text as it appears (e.g. "traversed")
	Lemma         string   // The dictionary form (e.g. "traverse")
	Reading       string   // Pronunciation, only set by the Japanese analyzer
	PartsOfSpeech []string // Kagome POS labels, empty for English
	// PrimaryPOS stores the first (primary) part of speech if available.
	PrimaryPOS string
	IsAlpha    bool
	IsStop     bool
	// Sentence is the trimmed text of the sentence the token belongs to.
	Sentence string
}

// Sentence represents a sentence containing tokens.
type Sentence struct {
	Text   string
	Tokens []Token
}

// Analyzer segments text into sentences and tokens.
type Analyzer interface {
	AnalyzeDocument(text string) ([]Sentence, error)
	Tokenize(text string) ([]Token, error)
}

// New returns the analyzer for the given language code ("en" or "ja").
func New(lang string) (Analyzer, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "en":
		return NewEnglish()
	case "ja":
		return NewJapanese()
	default:
		return nil, fmt.Errorf("analyzer: unsupported language %q", lang)
	}
}

// flatten returns every token of every sentence in document order.
func flatten(sentences []Sentence) []Token {
	n := 0
	for _, s := range sentences {
		n += len(s.Tokens)
	}
	out := make([]Token, 0, n)
	for _, s := range sentences {
		out = append(out, s.Tokens...)
	}
	return out
}

// isAlpha reports whether s is non-empty and made only of letters.
func isAlpha(s string) bool {
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

// splitSentences breaks text on Japanese terminators and newlines, and on
// Latin terminators that are followed by whitespace or the end of the text.
// Trailing terminators and closing quotes stay with their sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		// 。(3002), ！(FF01), ？(FF1F)
		case r == '。' || r == '！' || r == '？' || r == '\n':
			sentences = append(sentences, string(runes[start:i+1]))
			start = i + 1
		case r == '.' || r == '!' || r == '?':
			j := i + 1
			for j < len(runes) && isSentenceTail(runes[j]) {
				j++
			}
			if j == len(runes) || unicode.IsSpace(runes[j]) {
				sentences = append(sentences, string(runes[start:j]))
				start = j
				i = j - 1
			}
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}
	return sentences
}

func isSentenceTail(r rune) bool {
	switch r {
	case '.', '!', '?', '"', '\'', '”', '’', ')', ']':
		return true
	}
	return false
}
