package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikichat/internal/domain"
	"wikichat/internal/normalize"
)

func newRanker() *TFIDF { return NewTFIDF(normalize.New(nil), nil) }

func TestRank_BestMatch(t *testing.T) {
	corpus := []string{
		"Python is a high-level programming language.",
		"Guido van Rossum began working on Python in the late 1980s.",
		"Python was first released in 1991.",
		"The language emphasizes code readability.",
		"When was Python first released?",
	}
	m, err := newRanker().Rank(corpus)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Index)
	assert.Greater(t, m.Score, 0.0)
	assert.Less(t, m.Score, 1.0)
}

func TestRank_IdenticalSentenceScoresOne(t *testing.T) {
	corpus := []string{
		"Rust has a borrow checker.",
		"Go has goroutines.",
		"go has GOROUTINES!",
	}
	m, err := newRanker().Rank(corpus)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Index)
	assert.InDelta(t, 1.0, m.Score, 1e-9)
}

func TestRank_TiesGoToLaterSentence(t *testing.T) {
	corpus := []string{
		"compilers are fast",
		"unrelated words entirely",
		"compilers are fast",
		"compilers fast",
	}
	m, err := newRanker().Rank(corpus)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Index)
}

func TestRank_NoSharedVocabulary(t *testing.T) {
	corpus := []string{"Python is a language.", "Snakes shed skin."}
	_, err := newRanker().Rank(corpus)
	assert.ErrorIs(t, err, domain.ErrNoMatch)

	// a query made only of stop words has an empty vector
	_, err = newRanker().Rank([]string{"Python is a language.", "what is it?"})
	assert.ErrorIs(t, err, domain.ErrNoMatch)

	_, err = newRanker().Rank([]string{"the", "is"})
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestRank_TooShort(t *testing.T) {
	_, err := newRanker().Rank([]string{"only the query"})
	assert.ErrorIs(t, err, domain.ErrNoMatch)
	_, err = newRanker().Rank(nil)
	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestScores_Idempotent(t *testing.T) {
	corpus := []string{
		"Go was designed at Google.",
		"Go is statically typed.",
		"Who designed Go?",
	}
	r := newRanker()
	first, err := r.Scores(corpus)
	require.NoError(t, err)
	second, err := r.Scores(corpus)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.InDelta(t, 1.0, first[2], 1e-9)
	assert.Greater(t, first[0], first[1])
}

func TestRank_DoesNotModifyInput(t *testing.T) {
	corpus := []string{"Go is fast.", "Is Go fast?"}
	before := append([]string(nil), corpus...)
	_, err := newRanker().Rank(corpus)
	require.NoError(t, err)
	assert.Equal(t, before, corpus)
}
