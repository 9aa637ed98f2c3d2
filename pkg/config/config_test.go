package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/japaniel/podvocab/pkg/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.FrequencyListEnv, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLedger := filepath.Join(tempHome, ".local", "share", "podvocab", "podvocab.db")
	if cfg.Paths.Ledger != wantLedger {
		t.Fatalf("unexpected ledger path: got %q want %q", cfg.Paths.Ledger, wantLedger)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "podvocab", "output") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Vocab.Language != "en" {
		t.Fatalf("unexpected language: %q", cfg.Vocab.Language)
	}
	if cfg.Vocab.RarityThreshold != config.Default().Vocab.RarityThreshold {
		t.Fatalf("unexpected threshold: %v", cfg.Vocab.RarityThreshold)
	}
	if cfg.Deck.Format != config.DeckFormatAnkiText {
		t.Fatalf("unexpected deck format: %q", cfg.Deck.Format)
	}
	if cfg.Media.WhisperModel != "small" || cfg.Media.WhisperLanguage != "English" {
		t.Fatalf("unexpected whisper settings: %+v", cfg.Media)
	}
	if cfg.LogFile() != "" {
		t.Fatalf("expected file logging off by default, got %q", cfg.LogFile())
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.FrequencyListEnv, "")

	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
output_dir = "~/out"
ledger = "~/seen_words.csv"
log_dir = "~/logs"

[vocab]
language = "JA"
rarity_threshold = 0.0005
frequency_list = "~/freq.txt"
common_words = ["~/a1.txt", "", "~/a2.txt"]

[deck]
name = "  Commute  "
format = "command"
command = ["python3", "make_apkg.py"]
extension = ".apkg"

[media]
workers = 3

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected %q to be loaded, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.Ledger != filepath.Join(tempHome, "seen_words.csv") {
		t.Fatalf("unexpected ledger: %q", cfg.Paths.Ledger)
	}
	if cfg.LogFile() != filepath.Join(tempHome, "logs", "podvocab.log") {
		t.Fatalf("unexpected log file: %q", cfg.LogFile())
	}
	if cfg.Vocab.Language != "ja" {
		t.Fatalf("expected language to be lowercased, got %q", cfg.Vocab.Language)
	}
	if cfg.Vocab.FrequencyList != filepath.Join(tempHome, "freq.txt") {
		t.Fatalf("unexpected frequency list: %q", cfg.Vocab.FrequencyList)
	}
	if len(cfg.Vocab.CommonWords) != 2 || cfg.Vocab.CommonWords[1] != filepath.Join(tempHome, "a2.txt") {
		t.Fatalf("unexpected common word lists: %v", cfg.Vocab.CommonWords)
	}
	if cfg.Deck.Name != "Commute" || cfg.Deck.Extension != "apkg" {
		t.Fatalf("unexpected deck settings: %+v", cfg.Deck)
	}
	if cfg.Media.Workers != 3 || cfg.Media.Downloader != "yt-dlp" {
		t.Fatalf("unexpected media settings: %+v", cfg.Media)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging settings: %+v", cfg.Logging)
	}
}

func TestFrequencyListFallsBackToEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	listPath := filepath.Join(tempHome, "wiki_freq.txt")
	t.Setenv(config.FrequencyListEnv, listPath)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Vocab.FrequencyList != listPath {
		t.Fatalf("expected frequency list from env, got %q", cfg.Vocab.FrequencyList)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	configPath := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(configPath, []byte("[vocab]\nrarity = 0.1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"threshold zero", func(c *config.Config) { c.Vocab.RarityThreshold = 0 }, "rarity_threshold"},
		{"threshold one", func(c *config.Config) { c.Vocab.RarityThreshold = 1 }, "rarity_threshold"},
		{"language", func(c *config.Config) { c.Vocab.Language = "fr" }, "vocab.language"},
		{"deck format", func(c *config.Config) { c.Deck.Format = "pdf" }, "deck.format"},
		{"deck command", func(c *config.Config) { c.Deck.Format = config.DeckFormatCommand }, "deck.command"},
		{"workers", func(c *config.Config) { c.Media.Workers = 0 }, "media.workers"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error to mention %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if parsed.Vocab.Language != "en" {
		t.Fatalf("unexpected sample language: %q", parsed.Vocab.Language)
	}

	t.Setenv("HOME", dir)
	t.Setenv(config.FrequencyListEnv, "")
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly: exists=%v err=%v", exists, err)
	}
}

func TestEncodeRoundTripsDefaults(t *testing.T) {
	cfg := config.Default()
	data, err := config.Encode(&cfg)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(string(data), "rarity_threshold") {
		t.Fatalf("expected encoded config to include vocab keys:\n%s", data)
	}
}
