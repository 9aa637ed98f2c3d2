package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GWN-LMF JSON (Open English WordNet) types for deserialization.

type gwnDocument struct {
	Graph []gwnLexicon `json:"@graph"`
}

type gwnLexicon struct {
	Entries []gwnEntry  `json:"entry"`
	Synsets []gwnSynset `json:"synset"`
}

type gwnEntry struct {
	Lemma gwnLemma   `json:"lemma"`
	Sense []gwnSense `json:"sense"`
}

type gwnLemma struct {
	WrittenForm string `json:"writtenForm"`
}

type gwnSense struct {
	Synset string `json:"synset"`
}

type gwnSynset struct {
	ID         string          `json:"@id"`
	Definition json.RawMessage `json:"definition"`
}

// WordNetIndex maps lowercase lemmas to the definition of their first sense.
type WordNetIndex struct {
	defs map[string]string
}

// LoadWordNet parses a GWN-LMF JSON file.
func LoadWordNet(path string) (*WordNetIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var doc gwnDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	lower := cases.Lower(language.English)
	ix := &WordNetIndex{defs: make(map[string]string)}
	for _, lex := range doc.Graph {
		glosses := make(map[string]string, len(lex.Synsets))
		for _, s := range lex.Synsets {
			if g := firstGloss(s.Definition); g != "" {
				glosses[s.ID] = g
			}
		}
		for _, entry := range lex.Entries {
			word := lower.String(strings.TrimSpace(entry.Lemma.WrittenForm))
			if word == "" {
				continue
			}
			if _, ok := ix.defs[word]; ok {
				continue
			}
			for _, sense := range entry.Sense {
				if g, ok := glosses[sense.Synset]; ok {
					ix.defs[word] = g
					break
				}
			}
		}
	}
	return ix, nil
}

// firstGloss accepts the definition shapes seen in GWN-LMF exports:
// a string, a list of strings, or a list of {"gloss": ...} objects.
func firstGloss(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
		return strings.TrimSpace(list[0])
	}
	var objs []struct {
		Gloss string `json:"gloss"`
	}
	if json.Unmarshal(raw, &objs) == nil && len(objs) > 0 {
		return strings.TrimSpace(objs[0].Gloss)
	}
	return ""
}

// Define returns the first-sense definition of word, or "".
func (ix *WordNetIndex) Define(word string) string {
	if ix == nil {
		return ""
	}
	return ix.defs[word]
}

// Len returns the number of defined lemmas.
func (ix *WordNetIndex) Len() int { return len(ix.defs) }
