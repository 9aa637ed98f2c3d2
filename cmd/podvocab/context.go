package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/japaniel/podvocab/pkg/analyzer"
	"github.com/japaniel/podvocab/pkg/config"
	"github.com/japaniel/podvocab/pkg/dictionary"
	"github.com/japaniel/podvocab/pkg/export"
	"github.com/japaniel/podvocab/pkg/freq"
	"github.com/japaniel/podvocab/pkg/ledger"
	"github.com/japaniel/podvocab/pkg/logging"
	"github.com/japaniel/podvocab/pkg/media"
	"github.com/japaniel/podvocab/pkg/pipeline"
	"github.com/japaniel/podvocab/pkg/transcript"
	"github.com/japaniel/podvocab/pkg/vocab"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	// Runner overrides used by tests; nil selects the real executables.
	mediaRunner media.CommandRunner
	deckRunner  export.CommandRunner
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func withMediaRunner(r media.CommandRunner) rootOption {
	return func(c *commandContext) { c.mediaRunner = r }
}

func withDeckRunner(r export.CommandRunner) rootOption {
	return func(c *commandContext) { c.deckRunner = r }
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level := strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if !logging.ValidLevel(level) {
				c.configErr = fmt.Errorf("--log-level: unsupported value %q", *c.logLevelFlag)
				return
			}
			cfg.Logging.Level = level
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		paths := []string{"stderr"}
		if file := cfg.LogFile(); file != "" {
			paths = append(paths, file)
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: paths,
		})
		if err != nil {
			logger = slog.Default()
			logger.Warn("logger setup failed; using default", logging.Error(err))
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) componentLogger(component string) *slog.Logger {
	return logging.NewComponentLogger(c.log(), component)
}

// newExtractor loads the frequency list and the analyzer for the configured language.
func (c *commandContext) newExtractor() (*vocab.Extractor, error) {
	cfg := c.configValue()
	if cfg.Vocab.FrequencyList == "" {
		return nil, fmt.Errorf("vocab.frequency_list is not set (edit the config or export %s)", config.FrequencyListEnv)
	}
	table, err := freq.LoadTable(cfg.Vocab.FrequencyList)
	if err != nil {
		return nil, fmt.Errorf("load frequency list: %w", err)
	}
	tok, err := analyzer.New(cfg.Vocab.Language)
	if err != nil {
		return nil, err
	}
	c.componentLogger("freq").Debug("frequency list loaded", "path", cfg.Vocab.FrequencyList, "entries", table.Len())
	return vocab.NewExtractor(tok, table,
		vocab.WithThreshold(cfg.Vocab.RarityThreshold),
		vocab.WithLogger(c.componentLogger("extract")),
	), nil
}

func (c *commandContext) commonWords() (vocab.WordSet, error) {
	cfg := c.configValue()
	if len(cfg.Vocab.CommonWords) == 0 {
		return nil, nil
	}
	return freq.LoadWordSet(cfg.Vocab.CommonWords...)
}

func (c *commandContext) definer() dictionary.Definer {
	cfg := c.configValue()
	d, err := dictionary.Load(cfg.Vocab.Dictionary, cfg.Vocab.Language)
	if err != nil {
		c.componentLogger("dictionary").Warn("dictionary unavailable; exporting without definitions", logging.Error(err))
		return nil
	}
	if d == nil && cfg.Vocab.Dictionary != "" {
		c.componentLogger("dictionary").Info("dictionary file missing; run `podvocab dict fetch`", "path", cfg.Vocab.Dictionary)
	}
	return d
}

func (c *commandContext) openLedger() (ledger.Ledger, error) {
	return ledger.Open(c.configValue().Paths.Ledger, c.componentLogger("ledger"))
}

func (c *commandContext) newExporter() *export.Exporter {
	cfg := c.configValue()
	var deck export.DeckWriter = export.AnkiTextWriter{}
	if cfg.Deck.Format == config.DeckFormatCommand {
		deck = export.NewCommandWriter(cfg.Deck.Command, cfg.Deck.Extension).WithCommandRunner(c.deckRunner)
	}
	return &export.Exporter{
		OutputDir: cfg.Paths.OutputDir,
		DeckName:  cfg.Deck.Name,
		Deck:      deck,
		Logger:    c.componentLogger("export"),
	}
}

func (c *commandContext) newTranscriptSource() *transcript.Source {
	return transcript.NewSource(transcript.WithLogger(c.componentLogger("transcript")))
}

func (c *commandContext) newDownloader() *media.Downloader {
	return media.NewDownloader(c.configValue().Media.Downloader).WithCommandRunner(c.mediaRunner)
}

func (c *commandContext) newTranscriber() *media.Transcriber {
	cfg := c.configValue()
	return media.NewTranscriber(media.TranscriberConfig{
		Binary:   cfg.Media.Transcriber,
		Model:    cfg.Media.WhisperModel,
		Language: cfg.Media.WhisperLanguage,
	}).WithCommandRunner(c.mediaRunner)
}

// newPipeline assembles a pipeline; the caller closes the returned ledger.
func (c *commandContext) newPipeline() (*pipeline.Pipeline, ledger.Ledger, error) {
	extractor, err := c.newExtractor()
	if err != nil {
		return nil, nil, err
	}
	common, err := c.commonWords()
	if err != nil {
		return nil, nil, err
	}
	l, err := c.openLedger()
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger: %w", err)
	}
	return &pipeline.Pipeline{
		Reader:    c.newTranscriptSource(),
		Extractor: extractor,
		Ledger:    l,
		Exporter:  c.newExporter(),
		Common:    common,
		Definer:   c.definer(),
		Logger:    c.componentLogger("pipeline"),
	}, l, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func closeLedger(l ledger.Ledger, logger *slog.Logger) {
	if l == nil {
		return
	}
	if err := l.Close(); err != nil {
		logger.Warn("close ledger", logging.Error(err))
	}
}
