package config

import (
	"errors"
	"fmt"

	"github.com/japaniel/podvocab/pkg/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateVocab(); err != nil {
		return err
	}
	if err := c.validateDeck(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.Ledger == "" {
		return errors.New("paths.ledger must be set")
	}
	return nil
}

func (c *Config) validateVocab() error {
	switch c.Vocab.Language {
	case "en", "ja":
	default:
		return fmt.Errorf("vocab.language: unsupported value %q (want en or ja)", c.Vocab.Language)
	}
	if c.Vocab.RarityThreshold <= 0 || c.Vocab.RarityThreshold >= 1 {
		return fmt.Errorf("vocab.rarity_threshold must be between 0 and 1, got %v", c.Vocab.RarityThreshold)
	}
	return nil
}

func (c *Config) validateDeck() error {
	switch c.Deck.Format {
	case DeckFormatAnkiText:
	case DeckFormatCommand:
		if len(c.Deck.Command) == 0 {
			return errors.New("deck.command must be set when deck.format is \"command\"")
		}
	default:
		return fmt.Errorf("deck.format: unsupported value %q", c.Deck.Format)
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.Workers < 1 {
		return fmt.Errorf("media.workers must be at least 1, got %d", c.Media.Workers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
