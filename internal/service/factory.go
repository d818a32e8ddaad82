package service

import (
	"go.uber.org/zap"

	"wikichat/internal/chunker"
	"wikichat/internal/domain"
)

// Factory creates isolated sessions that share read-only components.
// Every component it holds must be safe for concurrent use.
type Factory struct {
	Source     domain.Source
	Builder    *chunker.Builder
	Ranker     domain.Ranker
	Summarizer domain.Summarizer
	Logger     *zap.Logger
	Options    Options
}

// New returns a fresh session awaiting a topic.
func (f *Factory) New() *Session {
	return NewSession(f.Source, f.Builder, f.Ranker, f.Summarizer, f.Logger, f.Options)
}
