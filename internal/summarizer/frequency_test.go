package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wikichat/internal/normalize"
)

func TestSummarize(t *testing.T) {
	s := NewFrequencySummarizer(normalize.New(nil))
	sentences := []string{
		"Python is a programming language.",
		"Bananas are yellow.",
		"Python programming is popular.",
		"The sky is blue.",
	}

	got := s.Summarize(sentences, 2)
	assert.Equal(t, "Python is a programming language. Python programming is popular.", got)
}

func TestSummarize_Bounds(t *testing.T) {
	s := NewFrequencySummarizer(normalize.New(nil))
	assert.Equal(t, "", s.Summarize(nil, 3))
	assert.Equal(t, "One. Two.", s.Summarize([]string{"One.", " Two. "}, 10))
}
