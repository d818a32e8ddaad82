package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wikichat/internal/chunker"
	"wikichat/internal/domain"
)

// Mode is the conversation state.
type Mode int

const (
	ModeAwaitingTopic Mode = iota
	ModeChatting
	ModeEnded
)

func (m Mode) String() string {
	switch m {
	case ModeAwaitingTopic:
		return "awaiting_topic"
	case ModeChatting:
		return "chatting"
	case ModeEnded:
		return "ended"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Fixed replies.
const (
	Greeting           = "Hello, Great day! Please give me a topic of your interest."
	Usage              = `Type "bye" or "quit" or "exit" to end chat. Type "more" after an answer for the full passage.`
	FarewellReply      = "See you soon! Bye!"
	PromptMissingReply = "Please input your query first!"
	NotSureReply       = "I am not sure. Sorry!"
	NoPassageReply     = "That was something you said earlier, there is no article passage behind it."
	TooLargeReply      = "This conversation has grown too long for me to keep up. Please say bye and start a new one."
)

const moreCommand = "more"

var exitCommands = map[string]struct{}{"bye": {}, "quit": {}, "exit": {}}

// Options tunes a Session.
type Options struct {
	// MaxSentences caps the corpus size. Zero means unlimited.
	MaxSentences int
	// SummarySentences is the length of the topic summary. Zero disables it.
	SummarySentences int
}

// Session is one conversation. It is not safe for concurrent use; turns
// must be submitted one at a time.
type Session struct {
	source     domain.Source
	builder    *chunker.Builder
	ranker     domain.Ranker
	summarizer domain.Summarizer
	logger     *zap.Logger
	opts       Options

	mode       Mode
	corpus     *chunker.Corpus
	summary    string
	lastMatch  int
	transcript []domain.Entry
}

// NewSession creates a session awaiting a topic. summarizer and logger may be nil.
func NewSession(source domain.Source, builder *chunker.Builder, ranker domain.Ranker, summarizer domain.Summarizer, logger *zap.Logger, opts Options) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		source:     source,
		builder:    builder,
		ranker:     ranker,
		summarizer: summarizer,
		logger:     logger,
		opts:       opts,
		mode:       ModeAwaitingTopic,
		lastMatch:  -1,
	}
}

// Handle processes one utterance and returns the full transcript.
// Recoverable failures are answered in the transcript; a non-nil error is
// either ErrSessionEnded or ErrCorruptSession, and in both cases the
// session is over.
func (s *Session) Handle(ctx context.Context, utterance string) ([]domain.Entry, error) {
	if s.mode == ModeEnded {
		return s.Transcript(), domain.ErrSessionEnded
	}
	command := strings.ToLower(strings.TrimSpace(utterance))

	var (
		reply string
		err   error
	)
	switch _, exit := exitCommands[command]; {
	case exit:
		reply = FarewellReply
		s.mode = ModeEnded
	case command == moreCommand:
		reply = s.more()
	case s.mode == ModeAwaitingTopic:
		reply = s.acquire(ctx, utterance)
	default:
		reply, err = s.respond(utterance)
	}
	if err != nil {
		s.mode = ModeEnded
		s.logger.Error("session aborted", zap.Error(err))
		return s.Transcript(), err
	}

	s.transcript = append(s.transcript,
		domain.Entry{Speaker: domain.SpeakerUser, Text: utterance},
		domain.Entry{Speaker: domain.SpeakerChatBot, Text: reply},
	)
	s.logger.Debug("turn", zap.Stringer("mode", s.mode), zap.Int("transcript", len(s.transcript)))
	return s.Transcript(), nil
}

func (s *Session) more() string {
	if s.corpus == nil || s.lastMatch < 0 {
		s.logger.Debug("nothing to expand", zap.Error(domain.ErrPromptMissing))
		return PromptMissingReply
	}
	passage, ok := s.corpus.Passage(s.lastMatch)
	if !ok {
		return NoPassageReply
	}
	return passage
}

func (s *Session) acquire(ctx context.Context, topic string) string {
	doc, err := s.source.Fetch(ctx, topic)
	if err != nil {
		s.logger.Warn("topic fetch failed", zap.String("topic", topic), zap.Error(err))
		return fmt.Sprintf("Error: %v. Please input some other topic!", err)
	}
	corpus, err := s.builder.Build(doc)
	if err != nil {
		s.logger.Warn("topic ingestion failed", zap.String("topic", topic), zap.Error(err))
		return fmt.Sprintf("Error: %v. Please input some other topic!", err)
	}
	if err := corpus.Check(); err != nil {
		s.logger.Error("ingested corpus is inconsistent", zap.Error(err))
		return fmt.Sprintf("Error: %v. Please input some other topic!", err)
	}
	if s.tooLarge(corpus) {
		err := fmt.Errorf("%w: article has %d sentences, limit is %d",
			domain.ErrSessionTooLarge, corpus.Len(), s.opts.MaxSentences)
		s.logger.Warn("topic rejected", zap.String("topic", topic), zap.Error(err))
		return fmt.Sprintf("Error: %v. Please input some other topic!", err)
	}

	s.corpus = corpus
	s.lastMatch = -1
	s.mode = ModeChatting
	if s.summarizer != nil && s.opts.SummarySentences > 0 {
		s.summary = s.summarizer.Summarize(corpus.Sentences(), s.opts.SummarySentences)
	}
	s.logger.Info("topic loaded",
		zap.String("title", corpus.Title),
		zap.Int("paragraphs", len(corpus.Paragraphs())),
		zap.Int("sentences", corpus.Len()))

	if corpus.Source == "" {
		return fmt.Sprintf("Topic is \"%s\". Let's chat!", corpus.Title)
	}
	return fmt.Sprintf("Topic is \"%s: %s\". Let's chat!", corpus.Source, corpus.Title)
}

func (s *Session) respond(utterance string) (string, error) {
	if err := s.corpus.Check(); err != nil {
		return "", err
	}
	if s.tooLarge(s.corpus) {
		s.logger.Warn("corpus limit reached",
			zap.Int("sentences", s.corpus.Len()),
			zap.Error(domain.ErrSessionTooLarge))
		return TooLargeReply, nil
	}

	s.corpus.AppendUtterance(utterance)
	if err := s.corpus.Check(); err != nil {
		return "", err
	}
	query := s.corpus.Len() - 1

	m, err := s.ranker.Rank(s.corpus.Sentences())
	if errors.Is(err, domain.ErrNoMatch) {
		return NotSureReply, nil
	}
	if err != nil {
		s.logger.Error("ranking failed", zap.Error(err))
		return NotSureReply, nil
	}
	if m.Index < 0 || m.Index >= query {
		return "", fmt.Errorf("%w: ranker returned index %d for corpus of %d",
			domain.ErrCorruptSession, m.Index, s.corpus.Len())
	}
	s.lastMatch = m.Index
	return s.corpus.Sentence(m.Index), nil
}

// tooLarge reports whether corpus has no room left for another utterance.
func (s *Session) tooLarge(corpus *chunker.Corpus) bool {
	return s.opts.MaxSentences > 0 && corpus.Len() >= s.opts.MaxSentences
}

// Mode returns the current conversation state.
func (s *Session) Mode() Mode { return s.mode }

// Title returns the active topic title, or "" before a topic is loaded.
func (s *Session) Title() string {
	if s.corpus == nil {
		return ""
	}
	return s.corpus.Title
}

// Summary returns a short summary of the active topic, if one was computed.
func (s *Session) Summary() string { return s.summary }

// LastMatch returns the corpus index of the most recent best match.
func (s *Session) LastMatch() (int, bool) { return s.lastMatch, s.lastMatch >= 0 }

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []domain.Entry {
	out := make([]domain.Entry, len(s.transcript))
	copy(out, s.transcript)
	return out
}
