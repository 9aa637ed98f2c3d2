package vocab

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the extraction, scoring and ledger layers.
var (
	// ErrTranscriptUnavailable means the transcript source is missing or unreadable.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	// ErrInsufficientData means there were no countable tokens to score.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrLedgerCorrupt means the persisted seen-words table could not be parsed.
	ErrLedgerCorrupt = errors.New("ledger corrupt")
	// ErrCollaborator marks a failure inside an external collaborator
	// (oracle, tokenizer, deck writer, downloader, transcriber).
	ErrCollaborator = errors.New("external collaborator failure")
)

// StageError records which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

// NewStageError wraps err with the stage name. A nil err returns nil.
func NewStageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// collaboratorStages are the stages that run an external tool or model.
var collaboratorStages = map[string]bool{
	"tokenize":   true,
	"oracle":     true,
	"deck":       true,
	"download":   true,
	"transcribe": true,
}

// Unwrap exposes the cause, plus ErrCollaborator for stages in
// collaboratorStages. Read, ledger and export failures are local.
func (e *StageError) Unwrap() []error {
	if collaboratorStages[e.Stage] {
		return []error{e.Err, ErrCollaborator}
	}
	return []error{e.Err}
}
