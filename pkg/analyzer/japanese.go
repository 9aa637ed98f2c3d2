package analyzer

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Japanese POS labels that never carry study vocabulary.
var japaneseStopPOS = map[string]struct{}{
	"記号":   {},
	"補助記号": {},
	"助詞":   {},
	"助動詞":  {},
}

// Japanese tokenizes text with kagome and the IPA dictionary.
type Japanese struct {
	t *tokenizer.Tokenizer
}

// NewJapanese creates a new kagome tokenizer instance.
func NewJapanese() (*Japanese, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Japanese{t: t}, nil
}

// analyzeSentence breaks one sentence into tokens with readings and base forms.
func (a *Japanese) analyzeSentence(sentence string) []Token {
	var result []Token
	for _, token := range a.t.Tokenize(sentence) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		// IPA features: 0 POS, 1-3 sub-POS, 4 conjugation type,
		// 5 conjugation form, 6 base form, 7 reading, 8 pronunciation.
		features := token.Features()

		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		primaryPOS := ""
		if len(features) > 0 {
			primaryPOS = features[0]
		}

		_, stop := japaneseStopPOS[primaryPOS]
		if len(features) > 1 && features[1] == "数" {
			stop = true
		}

		result = append(result, Token{
			Surface:       token.Surface,
			Lemma:         base,
			Reading:       reading,
			PartsOfSpeech: features,
			PrimaryPOS:    primaryPOS,
			IsAlpha:       isAlpha(token.Surface),
			IsStop:        stop,
			Sentence:      sentence,
		})
	}
	return result
}

// AnalyzeDocument splits the text into sentences and tokenizes each sentence.
func (a *Japanese) AnalyzeDocument(text string) ([]Sentence, error) {
	var result []Sentence
	for _, s := range splitSentences(text) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		result = append(result, Sentence{Text: s, Tokens: a.analyzeSentence(s)})
	}
	return result, nil
}

// Tokenize returns the tokens of every sentence in document order.
func (a *Japanese) Tokenize(text string) ([]Token, error) {
	sentences, err := a.AnalyzeDocument(text)
	if err != nil {
		return nil, err
	}
	return flatten(sentences), nil
}
