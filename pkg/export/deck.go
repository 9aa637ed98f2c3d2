package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os/exec"
	"strings"

	"github.com/japaniel/podvocab/pkg/fsutil"
	"github.com/japaniel/podvocab/pkg/vocab"
)

// Note is one flashcard.
type Note struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Context    string `json:"context"`
}

// Deck is a named set of notes.
type Deck struct {
	Name  string `json:"name"`
	Notes []Note `json:"notes"`
}

// NewDeck builds a deck from candidates, keeping their order.
func NewDeck(name string, cands []vocab.Candidate) Deck {
	d := Deck{Name: name, Notes: make([]Note, 0, len(cands))}
	for _, c := range cands {
		d.Notes = append(d.Notes, Note{
			Word:       c.Word,
			Definition: c.Definition,
			Context:    fmt.Sprintf("%s (freq: %s)", c.Context, FormatFrequency(c.Frequency)),
		})
	}
	return d
}

// DeckWriter persists a deck in some flashcard format.
type DeckWriter interface {
	WriteDeck(ctx context.Context, path string, deck Deck) error
	// Extension is the file extension of written decks, without the dot.
	Extension() string
}

// AnkiTextWriter writes Anki's plain-text import format.
type AnkiTextWriter struct{}

func (AnkiTextWriter) Extension() string { return "txt" }

func (AnkiTextWriter) WriteDeck(ctx context.Context, path string, deck Deck) error {
	var b strings.Builder
	b.WriteString("#separator:tab\n")
	b.WriteString("#html:true\n")
	b.WriteString("#notetype:Basic\n")
	fmt.Fprintf(&b, "#deck:%s\n", cleanField(deck.Name))
	b.WriteString("#columns:Front\tBack\n")
	for _, n := range deck.Notes {
		back := html.EscapeString(cleanField(n.Definition)) + "<br><br>" + html.EscapeString(cleanField(n.Context))
		fmt.Fprintf(&b, "%s\t%s\n", html.EscapeString(cleanField(n.Word)), back)
	}
	return fsutil.WriteFileAtomic(path, []byte(b.String()), 0o644)
}

// cleanField flattens tabs and newlines, which would break the row layout.
func cleanField(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CommandRunner runs an external command with stdin attached.
type CommandRunner func(ctx context.Context, stdin io.Reader, name string, args ...string) error

// CommandWriter hands the deck as JSON on stdin to an external packager
// (for example a genanki script) with the output path as the final argument.
type CommandWriter struct {
	Command []string
	Ext     string
	run     CommandRunner
}

// NewCommandWriter builds a writer for command, e.g. {"python3", "make_deck.py"}.
func NewCommandWriter(command []string, ext string) *CommandWriter {
	if ext == "" {
		ext = "apkg"
	}
	return &CommandWriter{Command: command, Ext: strings.TrimPrefix(ext, "."), run: runCommand}
}

// WithCommandRunner overrides command execution for testing.
func (w *CommandWriter) WithCommandRunner(r CommandRunner) *CommandWriter {
	if r != nil {
		w.run = r
	}
	return w
}

func (w *CommandWriter) Extension() string { return w.Ext }

func (w *CommandWriter) WriteDeck(ctx context.Context, path string, deck Deck) error {
	if len(w.Command) == 0 {
		return fmt.Errorf("deck command not configured")
	}
	payload, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}
	args := append(append([]string{}, w.Command[1:]...), path)
	if err := w.run(ctx, bytes.NewReader(payload), w.Command[0], args...); err != nil {
		return fmt.Errorf("%s: %w", w.Command[0], err)
	}
	return nil
}

func runCommand(ctx context.Context, stdin io.Reader, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
