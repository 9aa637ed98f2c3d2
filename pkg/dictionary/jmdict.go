package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// JMdictEntry matches the structure of jmdict-simplified entries.
type JMdictEntry struct {
	Id    string          `json:"id"`
	Kanji []JMdictElement `json:"kanji"`
	Kana  []JMdictElement `json:"kana"`
	Sense []JMdictSense   `json:"sense"`
}

type JMdictElement struct {
	Text   string   `json:"text"`
	Common bool     `json:"common"`
	Tags   []string `json:"tags"`
}

type JMdictSense struct {
	PartOfSpeech []string      `json:"partOfSpeech"`
	Gloss        []JMdictGloss `json:"gloss"`
}

type JMdictGloss struct {
	Text string `json:"text"`
	Lang string `json:"lang"` // defaults to 'eng' if missing
}

// DefinitionEntry is the JSON shape produced by FormatDefinitions.
type DefinitionEntry struct {
	Senses []string `json:"senses"`
	POS    []string `json:"pos"`
}

// LoadJMdictSimplified reads either the release file ({"words": [...]}) or a
// bare array of entries.
func LoadJMdictSimplified(path string) ([]JMdictEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var wrapped struct {
		Words []JMdictEntry `json:"words"`
	}
	dec := json.NewDecoder(f)
	if err := dec.Decode(&wrapped); err == nil && len(wrapped.Words) > 0 {
		return wrapped.Words, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	var entries []JMdictEntry
	dec = json.NewDecoder(f)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary as object or array: %w", err)
	}
	return entries, nil
}

// JMdictIndex looks up entries by kanji or kana spelling.
type JMdictIndex struct {
	mu    sync.RWMutex
	index map[string][]JMdictEntry
}

// NewIndex builds an in-memory index of the provided dictionary.
func NewIndex(entries []JMdictEntry) *JMdictIndex {
	idx := make(map[string][]JMdictEntry)
	for _, e := range entries {
		for _, k := range e.Kanji {
			idx[k.Text] = append(idx[k.Text], e)
		}
		for _, k := range e.Kana {
			idx[k.Text] = append(idx[k.Text], e)
		}
	}
	return &JMdictIndex{index: idx}
}

// Lookup finds matching entries for a given word, lemma, and pronunciation.
func (ix *JMdictIndex) Lookup(word, lemma, pronunciation string) []JMdictEntry {
	candidates := make(map[string]JMdictEntry)
	search := func(term string) {
		if term == "" {
			return
		}
		ix.mu.RLock()
		entries := ix.index[term]
		ix.mu.RUnlock()
		for _, e := range entries {
			candidates[e.Id] = e
		}
	}
	search(word)
	search(lemma)

	var results []JMdictEntry
	for _, entry := range candidates {
		if isMatch(entry, word, lemma, pronunciation) {
			results = append(results, entry)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Id < results[j].Id
	})
	return results
}

// Define returns the glosses of the first sense of the first matching entry.
func (ix *JMdictIndex) Define(word string) string {
	matches := ix.Lookup(word, word, "")
	for _, e := range matches {
		for _, s := range e.Sense {
			var glosses []string
			for _, g := range s.Gloss {
				if g.Lang == "" || g.Lang == "eng" {
					glosses = append(glosses, g.Text)
				}
			}
			if len(glosses) > 0 {
				return strings.Join(glosses, "; ")
			}
		}
	}
	return ""
}

// Len returns the number of indexed spellings.
func (ix *JMdictIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.index)
}

func isMatch(entry JMdictEntry, word, lemma, pronunciation string) bool {
	hasText := false
	for _, k := range entry.Kanji {
		if k.Text == word || k.Text == lemma {
			hasText = true
			break
		}
	}
	for _, k := range entry.Kana {
		if k.Text == word || k.Text == lemma {
			hasText = true
			break
		}
	}
	if !hasText {
		return false
	}
	if pronunciation == "" {
		return true
	}

	normalizedPron := ToHiragana(pronunciation)
	for _, k := range entry.Kana {
		if ToHiragana(k.Text) == normalizedPron {
			return true
		}
	}
	return false
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}

// FormatDefinitions flattens entries into a JSON list of glosses and POS tags.
func FormatDefinitions(entries []JMdictEntry) (string, error) {
	var defs []DefinitionEntry
	for _, e := range entries {
		var senses, poses []string
		for _, s := range e.Sense {
			for _, g := range s.Gloss {
				senses = append(senses, g.Text)
			}
			poses = append(poses, s.PartOfSpeech...)
		}
		defs = append(defs, DefinitionEntry{Senses: senses, POS: poses})
	}
	b, err := json.Marshal(defs)
	return string(b), err
}
