package analyzer

import (
	"bufio"
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed stopwords_en.txt
var englishStopwordList string

// English tokenizes text on word boundaries and lemmatizes with golem.
type English struct {
	lemmatizer *golem.Lemmatizer
	stop       map[string]struct{}
	lower      cases.Caser
}

// NewEnglish loads the English lemma dictionary and stopword list.
func NewEnglish() (*English, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemmatizer: %w", err)
	}
	return &English{
		lemmatizer: lem,
		stop:       parseStopwords(englishStopwordList),
		lower:      cases.Lower(language.English),
	}, nil
}

func parseStopwords(list string) map[string]struct{} {
	out := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(list))
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// IsStopword reports whether the lowercased word is on the stopword list.
func (a *English) IsStopword(word string) bool {
	_, ok := a.stop[a.lower.String(word)]
	return ok
}

// AnalyzeDocument splits the text into sentences and tokenizes each sentence.
func (a *English) AnalyzeDocument(text string) ([]Sentence, error) {
	var result []Sentence
	for _, s := range splitSentences(text) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		var tokens []Token
		for _, w := range scanWords(s) {
			lowered := a.lower.String(w)
			lemma := lowered
			if isAlpha(w) {
				lemma = a.lemmatizer.Lemma(lowered)
			}
			tokens = append(tokens, Token{
				Surface:  w,
				Lemma:    lemma,
				IsAlpha:  isAlpha(w),
				IsStop:   a.IsStopword(lowered),
				Sentence: s,
			})
		}
		result = append(result, Sentence{Text: s, Tokens: tokens})
	}
	return result, nil
}

// Tokenize returns the tokens of every sentence in document order.
func (a *English) Tokenize(text string) ([]Token, error) {
	sentences, err := a.AnalyzeDocument(text)
	if err != nil {
		return nil, err
	}
	return flatten(sentences), nil
}

// scanWords returns runs of letters, digits and inner apostrophes.
// Hyphens and other punctuation separate words.
func scanWords(s string) []string {
	var words []string
	var cur []rune
	emit := func() {
		w := strings.Trim(string(cur), "'’")
		if w != "" {
			words = append(words, w)
		}
		cur = cur[:0]
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’' || unicode.Is(unicode.Mn, r) {
			cur = append(cur, r)
			continue
		}
		if len(cur) > 0 {
			emit()
		}
	}
	if len(cur) > 0 {
		emit()
	}
	return words
}
