package config

import (
	"fmt"
	"os"
	"strings"
)

// FrequencyListEnv overrides an empty vocab.frequency_list.
const FrequencyListEnv = "PODVOCAB_FREQUENCY_LIST"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeVocab(); err != nil {
		return err
	}
	c.normalizeDeck()
	c.normalizeMedia()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.TranscriptDir, err = expandPath(c.Paths.TranscriptDir); err != nil {
		return fmt.Errorf("paths.transcript_dir: %w", err)
	}
	if c.Paths.Ledger, err = expandPath(c.Paths.Ledger); err != nil {
		return fmt.Errorf("paths.ledger: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVocab() error {
	c.Vocab.Language = strings.ToLower(strings.TrimSpace(c.Vocab.Language))
	if c.Vocab.Language == "" {
		c.Vocab.Language = defaultLanguage
	}
	if strings.TrimSpace(c.Vocab.FrequencyList) == "" {
		c.Vocab.FrequencyList = strings.TrimSpace(os.Getenv(FrequencyListEnv))
	}
	var err error
	if c.Vocab.FrequencyList, err = expandPath(c.Vocab.FrequencyList); err != nil {
		return fmt.Errorf("vocab.frequency_list: %w", err)
	}
	if c.Vocab.Dictionary, err = expandPath(c.Vocab.Dictionary); err != nil {
		return fmt.Errorf("vocab.dictionary: %w", err)
	}
	lists := c.Vocab.CommonWords[:0]
	for _, p := range c.Vocab.CommonWords {
		if strings.TrimSpace(p) == "" {
			continue
		}
		expanded, err := expandPath(p)
		if err != nil {
			return fmt.Errorf("vocab.common_words: %w", err)
		}
		lists = append(lists, expanded)
	}
	c.Vocab.CommonWords = lists
	return nil
}

func (c *Config) normalizeDeck() {
	c.Deck.Name = strings.TrimSpace(c.Deck.Name)
	if c.Deck.Name == "" {
		c.Deck.Name = defaultDeckName
	}
	c.Deck.Format = strings.ToLower(strings.TrimSpace(c.Deck.Format))
	if c.Deck.Format == "" {
		c.Deck.Format = defaultDeckFormat
	}
	c.Deck.Extension = strings.TrimPrefix(strings.TrimSpace(c.Deck.Extension), ".")
	if c.Deck.Extension == "" {
		c.Deck.Extension = defaultDeckExtension
	}
}

func (c *Config) normalizeMedia() {
	if strings.TrimSpace(c.Media.Downloader) == "" {
		c.Media.Downloader = defaultDownloader
	}
	if strings.TrimSpace(c.Media.Transcriber) == "" {
		c.Media.Transcriber = defaultTranscriber
	}
	if strings.TrimSpace(c.Media.WhisperModel) == "" {
		c.Media.WhisperModel = defaultWhisperModel
	}
	if strings.TrimSpace(c.Media.WhisperLanguage) == "" {
		c.Media.WhisperLanguage = defaultWhisperLanguage
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
