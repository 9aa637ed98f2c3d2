// Package vocab extracts rare study words from transcript text and scores how
// difficult a transcript is for a learner.
package vocab

import (
	"github.com/japaniel/podvocab/pkg/analyzer"
)

// Candidate is one study word found in a transcript.
type Candidate struct {
	// Word is the lowercased lemma; unique within one extraction.
	Word      string
	Frequency float64
	// Context is the first sentence the word was seen in.
	Context string
	// Definition is optional and filled after extraction.
	Definition string
}

// Oracle looks up how common a word is. 0 means unknown.
type Oracle interface {
	Frequency(word string) float64
}

// Tokenizer splits text into analyzed tokens.
type Tokenizer interface {
	Tokenize(text string) ([]analyzer.Token, error)
}

// WordSet is a set of lowercase words, e.g. a CEFR A1/A2 list.
type WordSet map[string]struct{}

// NewWordSet builds a set from words as given.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Has reports membership. A nil set contains nothing.
func (s WordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Words returns the candidate words in order.
func Words(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Word
	}
	return out
}
