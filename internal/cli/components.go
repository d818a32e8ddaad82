package cli

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"wikichat/internal/chunker"
	"wikichat/internal/config"
	"wikichat/internal/domain"
	"wikichat/internal/normalize"
	"wikichat/internal/ranker"
	"wikichat/internal/service"
	"wikichat/internal/source"
	"wikichat/internal/source/file"
	"wikichat/internal/source/wikipedia"
	"wikichat/internal/summarizer"
)

func loadConfig(path string) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if path == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	return cfg, nil
}

// buildFactory assembles the session components selected by cfg.
func buildFactory(cfg *config.AppConfig, logger *zap.Logger) (*service.Factory, error) {
	var src domain.Source
	switch cfg.Source.Type {
	case "wikipedia", "":
		w := cfg.Source.Wikipedia
		if w == nil {
			return nil, fmt.Errorf("wikipedia source config missing")
		}
		src = wikipedia.NewClient(wikipedia.Config{
			BaseURL:           w.BaseURL,
			UserAgent:         w.UserAgent,
			Timeout:           time.Duration(w.TimeoutSecs) * time.Second,
			RequestsPerSecond: w.RequestsPerSecond,
			BreakerFailures:   w.BreakerFailures,
			BreakerOpen:       time.Duration(w.BreakerOpenSecs) * time.Second,
		}, logger.Named("wikipedia"))
	case "file":
		if cfg.Source.File == nil {
			return nil, fmt.Errorf("file source config missing")
		}
		src = file.NewSource(cfg.Source.File.Dir)
	default:
		return nil, fmt.Errorf("unknown source: %s", cfg.Source.Type)
	}
	if cfg.Source.CacheSize > 0 {
		cached, err := source.NewCached(src, cfg.Source.CacheSize, logger.Named("cache"))
		if err != nil {
			return nil, err
		}
		src = cached
	}

	var seg domain.Segmenter
	switch cfg.Segmenter.Type {
	case "punkt", "":
		punkt, err := chunker.NewPunktSegmenter()
		if err != nil {
			return nil, fmt.Errorf("punkt segmenter init failed: %w", err)
		}
		seg = punkt
	case "regex":
		seg = chunker.NewRegexSegmenter()
	default:
		return nil, fmt.Errorf("unknown segmenter: %s", cfg.Segmenter.Type)
	}

	var norm *normalize.Normalizer
	switch cfg.Normalizer.Lemmatizer {
	case "wordnet", "":
		n, err := normalize.NewWordNet()
		if err != nil {
			return nil, fmt.Errorf("lemmatizer init failed: %w", err)
		}
		norm = n
	case "none":
		norm = normalize.New(nil)
	default:
		return nil, fmt.Errorf("unknown lemmatizer: %s", cfg.Normalizer.Lemmatizer)
	}

	var sum domain.Summarizer
	switch cfg.Summarizer.Type {
	case "frequency", "":
		sum = summarizer.NewFrequencySummarizer(norm)
	case "none":
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Summarizer.Type)
	}

	maxSentences := cfg.Session.MaxSentences
	if maxSentences < 0 {
		maxSentences = 0
	}
	return &service.Factory{
		Source:     src,
		Builder:    chunker.NewBuilder(seg),
		Ranker:     ranker.NewTFIDF(norm, logger.Named("ranker")),
		Summarizer: sum,
		Logger:     logger.Named("session"),
		Options: service.Options{
			MaxSentences:     maxSentences,
			SummarySentences: cfg.Summarizer.MaxSentences,
		},
	}, nil
}
