// Command podvocab turns podcast episodes into vocabulary study decks.
//
// A typical session downloads an episode, transcribes it with whisper, pulls
// out words rarer than the configured frequency threshold, drops the ones
// already exported in earlier sessions, and writes an Anki deck plus a CSV.
// Each stage is also exposed as its own subcommand.
package main
