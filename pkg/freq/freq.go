// Package freq loads word frequency lists and reference word lists.
package freq

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/japaniel/podvocab/pkg/vocab"
)

// Table maps lowercase words to a frequency in [0,1].
type Table struct {
	freqs map[string]float64
}

// NewTable builds a table from explicit frequencies.
func NewTable(freqs map[string]float64) *Table {
	t := &Table{freqs: make(map[string]float64, len(freqs))}
	for w, f := range freqs {
		t.freqs[w] = f
	}
	return t
}

// Frequency returns the frequency of word, or 0 if it is unknown.
func (t *Table) Frequency(word string) float64 {
	if t == nil {
		return 0
	}
	return t.freqs[word]
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.freqs) }

// LoadTable reads a frequency list from path. See ParseTable for the format.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable reads "word value" lines separated by whitespace or tabs.
// Values containing a decimal point or exponent are read as frequencies;
// integer values are read as counts and divided by the total count.
// Blank lines and lines starting with '#' are skipped. The first entry for
// a word wins.
func ParseTable(r io.Reader) (*Table, error) {
	lower := cases.Lower(language.Und)
	counts := make(map[string]float64)
	freqs := make(map[string]float64)
	var total float64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected word and value", line)
		}
		word := lower.String(fields[0])
		raw := fields[len(fields)-1]
		if _, dup := freqs[word]; dup {
			continue
		}
		if _, dup := counts[word]; dup {
			continue
		}
		if strings.ContainsAny(raw, ".eE") {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 || v > 1 {
				return nil, fmt.Errorf("line %d: invalid frequency %q", line, raw)
			}
			freqs[word] = v
			continue
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid count %q", line, raw)
		}
		counts[word] = float64(n)
		total += float64(n)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if total > 0 {
		for w, n := range counts {
			freqs[w] = n / total
		}
	}
	return &Table{freqs: freqs}, nil
}

// LoadWordSet reads newline separated word lists into one set. Only the
// first field of each line is used, so "word pos" lists work unchanged.
func LoadWordSet(paths ...string) (vocab.WordSet, error) {
	lower := cases.Lower(language.Und)
	set := make(vocab.WordSet)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open word list: %w", err)
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			text := strings.TrimSpace(sc.Text())
			if text == "" || strings.HasPrefix(text, "#") {
				continue
			}
			set[lower.String(strings.Fields(text)[0])] = struct{}{}
		}
		err = sc.Err()
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read word list %s: %w", p, err)
		}
	}
	return set, nil
}
