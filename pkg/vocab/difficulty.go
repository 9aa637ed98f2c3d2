package vocab

import "unicode/utf8"

// Calibration constants for difficulty scoring.
const (
	// MinDifficultWordLength is the shortest word (in runes) that can count as difficult.
	MinDifficultWordLength = 4
	// DifficultFrequency is the stricter sub-threshold for difficult words.
	DifficultFrequency = 0.00005
	// MediumScore is the lowest score classified as Medium.
	MediumScore = 5.0
	// HardScore is the lowest score classified as Hard.
	HardScore = 10.0
)

// Tier is a coarse difficulty classification.
type Tier int

const (
	TierEasy Tier = iota
	TierMedium
	TierHard
)

func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "Easy"
	case TierMedium:
		return "Medium"
	case TierHard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// Assessment is the difficulty of one transcript.
type Assessment struct {
	// Score is the percentage of counted tokens that are difficult words.
	Score float64
	Tier  Tier
}

// IsDifficult reports whether c counts toward the difficulty score.
func IsDifficult(c Candidate, common WordSet) bool {
	return utf8.RuneCountInString(c.Word) >= MinDifficultWordLength &&
		c.Frequency < DifficultFrequency &&
		!common.Has(c.Word)
}

// TierFor classifies a score.
func TierFor(score float64) Tier {
	switch {
	case score < MediumScore:
		return TierEasy
	case score < HardScore:
		return TierMedium
	default:
		return TierHard
	}
}

// Score rates the transcript by the share of difficult candidates among all
// counted tokens. It fails with ErrInsufficientData when total is zero.
func Score(cands []Candidate, total int, common WordSet) (Assessment, error) {
	if total <= 0 {
		return Assessment{}, ErrInsufficientData
	}
	difficult := 0
	for _, c := range cands {
		if IsDifficult(c, common) {
			difficult++
		}
	}
	score := 100 * float64(difficult) / float64(total)
	return Assessment{Score: score, Tier: TierFor(score)}, nil
}
