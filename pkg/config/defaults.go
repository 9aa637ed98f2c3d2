package config

const (
	defaultOutputDir       = "~/podvocab/output"
	defaultAudioDir        = "~/podvocab/audio"
	defaultTranscriptDir   = "~/podvocab/transcripts"
	defaultLedgerPath      = "~/.local/share/podvocab/podvocab.db"
	defaultLanguage        = "en"
	defaultRarityThreshold = 0.0001
	defaultDeckName        = "Podcast Vocabulary"
	defaultDeckFormat      = DeckFormatAnkiText
	defaultDeckExtension   = "apkg"
	defaultDownloader      = "yt-dlp"
	defaultTranscriber     = "whisper"
	defaultWhisperModel    = "small"
	defaultWhisperLanguage = "English"
	defaultWorkers         = 1
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:     defaultOutputDir,
			AudioDir:      defaultAudioDir,
			TranscriptDir: defaultTranscriptDir,
			Ledger:        defaultLedgerPath,
		},
		Vocab: Vocab{
			Language:        defaultLanguage,
			RarityThreshold: defaultRarityThreshold,
		},
		Deck: Deck{
			Name:      defaultDeckName,
			Format:    defaultDeckFormat,
			Extension: defaultDeckExtension,
		},
		Media: Media{
			Downloader:      defaultDownloader,
			Transcriber:     defaultTranscriber,
			WhisperModel:    defaultWhisperModel,
			WhisperLanguage: defaultWhisperLanguage,
			Workers:         defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
