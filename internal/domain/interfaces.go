package domain

import (
	"context"
	"errors"
)

var (
	// ErrSourceUnavailable is returned when a document source cannot supply paragraphs.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrEmptyDocument is returned when a resolved document yields no sentences.
	ErrEmptyDocument = errors.New("empty document")
	// ErrNoMatch is returned when no prior sentence shares vocabulary with the query.
	ErrNoMatch = errors.New("no match")
	// ErrPromptMissing marks a "more" request made before any match. The
	// session answers it in the transcript and logs it.
	ErrPromptMissing = errors.New("prompt missing")
	// ErrSessionTooLarge marks a corpus at its sentence limit. A topic that
	// is already over the limit is rejected with it; a growing conversation
	// gets a reply and a log entry instead.
	ErrSessionTooLarge = errors.New("session too large")
	// ErrSessionEnded is returned for turns submitted after the session ended.
	ErrSessionEnded = errors.New("session ended")
	// ErrCorruptSession signals a broken corpus invariant. It is fatal for the session.
	ErrCorruptSession = errors.New("corrupt session")
)

// Document is the output of a document source for a single topic.
type Document struct {
	// Source names where the document came from, e.g. "Wikipedia".
	Source     string
	Title      string
	Paragraphs []string
}

// Match is the best-scoring prior sentence for a query.
type Match struct {
	Index int
	Score float64
}

// Speaker identifies the author of a transcript entry.
type Speaker string

const (
	SpeakerUser    Speaker = "User"
	SpeakerChatBot Speaker = "ChatBot"
)

// Entry is one line of a conversation transcript.
type Entry struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Source fetches the paragraphs of a topic.
type Source interface {
	Fetch(ctx context.Context, topic string) (Document, error)
}

// Segmenter splits a paragraph into sentences.
type Segmenter interface {
	Segment(paragraph string) []string
}

// Normalizer turns raw text into the canonical token sequence used for indexing and querying.
type Normalizer interface {
	Normalize(text string) []string
}

// Ranker scores the last sentence of a corpus against every earlier one.
// Implementations must not retain or modify the slice.
type Ranker interface {
	Rank(sentences []string) (Match, error)
}

// Summarizer produces a brief summary from already segmented sentences.
type Summarizer interface {
	Summarize(sentences []string, maxSentences int) string
}
