package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/japaniel/podvocab/pkg/fsutil"
	"github.com/japaniel/podvocab/pkg/vocab"
)

var csvHeader = []string{"word", "frequency", "definition", "context"}

// WriteCSV writes one row per candidate, in the given order.
func WriteCSV(path string, rows []vocab.Candidate) error {
	data, err := EncodeCSV(rows)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// EncodeCSV renders rows with the word CSV header.
func EncodeCSV(rows []vocab.Candidate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range rows {
		rec := []string{c.Word, FormatFrequency(c.Frequency), c.Definition, c.Context}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatFrequency renders a frequency with ten decimals.
func FormatFrequency(f float64) string {
	return strconv.FormatFloat(f, 'f', 10, 64)
}
