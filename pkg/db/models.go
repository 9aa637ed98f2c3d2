package db

import "time"

// SeenWord is one row of the seen-words ledger.
type SeenWord struct {
	Word        string
	FirstSeenAt time.Time
}

// Export records one completed export cycle.
type Export struct {
	ID          string
	Title       string
	CSVPath     string
	DeckPath    string
	WordCount   int
	TotalTokens int
	// Score and Tier are empty when the difficulty could not be assessed.
	Score     *float64
	Tier      string
	CreatedAt time.Time
}
