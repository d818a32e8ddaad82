package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WikipediaConfig holds settings for the Wikipedia document source.
type WikipediaConfig struct {
	BaseURL           string  `yaml:"base_url"`
	UserAgent         string  `yaml:"user_agent"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BreakerFailures   uint32  `yaml:"breaker_failures"`
	BreakerOpenSecs   int     `yaml:"breaker_open_secs"`
}

// FileSourceConfig points the file document source at a directory of .txt articles.
type FileSourceConfig struct {
	Dir string `yaml:"dir"`
}

// SourceConfig selects and configures where topics are fetched from.
type SourceConfig struct {
	Type      string            `yaml:"type"`
	CacheSize int               `yaml:"cache_size"`
	Wikipedia *WikipediaConfig  `yaml:"wikipedia,omitempty"`
	File      *FileSourceConfig `yaml:"file,omitempty"`
}

// SegmenterConfig selects the sentence segmenter.
type SegmenterConfig struct {
	Type string `yaml:"type"`
}

// NormalizerConfig selects the lemmatizer used by the text normalizer.
type NormalizerConfig struct {
	Lemmatizer string `yaml:"lemmatizer"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// SessionConfig bounds a single conversation. MaxSentences -1 disables the limit.
type SessionConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxSessions int    `yaml:"max_sessions"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	File        string `yaml:"file,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Source     SourceConfig     `yaml:"source"`
	Segmenter  SegmenterConfig  `yaml:"segmenter"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Session    SessionConfig    `yaml:"session"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/wikichat/config.yaml.
// If neither exists, it writes defaults to ~/.config/wikichat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Dir returns the per-user directory holding the config and the TUI log.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wikichat"), nil
}

// Validate rejects unknown component types.
func (c *AppConfig) Validate() error {
	switch c.Source.Type {
	case "wikipedia":
	case "file":
		if c.Source.File == nil || c.Source.File.Dir == "" {
			return errors.New("file source requires source.file.dir")
		}
	default:
		return fmt.Errorf("unknown source: %s", c.Source.Type)
	}
	switch c.Segmenter.Type {
	case "punkt", "regex":
	default:
		return fmt.Errorf("unknown segmenter: %s", c.Segmenter.Type)
	}
	switch c.Normalizer.Lemmatizer {
	case "wordnet", "none":
	default:
		return fmt.Errorf("unknown lemmatizer: %s", c.Normalizer.Lemmatizer)
	}
	switch c.Summarizer.Type {
	case "frequency", "none":
	default:
		return fmt.Errorf("unknown summarizer: %s", c.Summarizer.Type)
	}
	if c.Session.MaxSentences < -1 {
		return errors.New("session.max_sentences must be positive or -1")
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Source.Type == "" {
		cfg.Source.Type = "wikipedia"
	}
	if cfg.Source.CacheSize == 0 {
		cfg.Source.CacheSize = 32
	}
	if cfg.Source.Type == "wikipedia" {
		if cfg.Source.Wikipedia == nil {
			cfg.Source.Wikipedia = &WikipediaConfig{}
		}
		w := cfg.Source.Wikipedia
		if w.BaseURL == "" {
			w.BaseURL = "https://en.wikipedia.org/wiki/"
		}
		if w.UserAgent == "" {
			w.UserAgent = "wikichat/1.0 (https://github.com/wikichat/wikichat)"
		}
		if w.TimeoutSecs == 0 {
			w.TimeoutSecs = 15
		}
		if w.RequestsPerSecond == 0 {
			w.RequestsPerSecond = 2
		}
		if w.BreakerFailures == 0 {
			w.BreakerFailures = 5
		}
		if w.BreakerOpenSecs == 0 {
			w.BreakerOpenSecs = 30
		}
	}
	if cfg.Segmenter.Type == "" {
		cfg.Segmenter.Type = "punkt"
	}
	if cfg.Normalizer.Lemmatizer == "" {
		cfg.Normalizer.Lemmatizer = "wordnet"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 3
	}
	if cfg.Session.MaxSentences == 0 {
		cfg.Session.MaxSentences = 20000
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxSessions == 0 {
		cfg.Server.MaxSessions = 1000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
