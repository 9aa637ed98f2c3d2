// Package dictionary attaches short definitions to study words. English uses
// Open English WordNet, Japanese uses jmdict-simplified.
package dictionary

import (
	"errors"
	"fmt"
	"os"

	"github.com/japaniel/podvocab/pkg/vocab"
)

// Definer returns a short definition for a lemma, or "" when unknown.
type Definer interface {
	Define(word string) string
}

// Load picks the loader for lang. An empty or missing path returns a nil
// Definer and no error, so runs continue without definitions.
func Load(path, lang string) (Definer, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	switch lang {
	case "", "en":
		ix, err := LoadWordNet(path)
		if err != nil {
			return nil, fmt.Errorf("load wordnet %s: %w", path, err)
		}
		return ix, nil
	case "ja":
		entries, err := LoadJMdictSimplified(path)
		if err != nil {
			return nil, fmt.Errorf("load jmdict %s: %w", path, err)
		}
		return NewIndex(entries), nil
	default:
		return nil, fmt.Errorf("no dictionary loader for language %q", lang)
	}
}

// Annotate fills Definition on each candidate that has none. A nil Definer
// leaves cands unchanged. It returns the number of definitions added.
func Annotate(d Definer, cands []vocab.Candidate) int {
	if d == nil {
		return 0
	}
	n := 0
	for i := range cands {
		if cands[i].Definition != "" {
			continue
		}
		if def := d.Define(cands[i].Word); def != "" {
			cands[i].Definition = def
			n++
		}
	}
	return n
}
