// Package logging builds the slog loggers used by podvocab.
//
// It owns the console and JSON handlers and the level/output plumbing, and
// provides a no-op logger for tests and wiring code that cannot fail. Log
// lines go to stderr by default so stdout stays free for command output.
package logging
