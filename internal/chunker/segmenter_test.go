package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexSegmenter(t *testing.T) {
	s := NewRegexSegmenter()

	tests := []struct {
		in   string
		want []string
	}{
		{"One. Two! Three?", []string{"One.", "Two!", "Three?"}},
		{"No terminal punctuation", []string{"No terminal punctuation"}},
		{"First. trailing tail", []string{"First.", "trailing tail"}},
		{"   ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Segment(tt.in), tt.in)
	}
}

func TestPunktSegmenter(t *testing.T) {
	s, err := NewPunktSegmenter()
	require.NoError(t, err)

	got := s.Segment("Python was created by Guido van Rossum. It was first released in 1991.")
	assert.Equal(t, []string{
		"Python was created by Guido van Rossum.",
		"It was first released in 1991.",
	}, got)
	assert.Empty(t, s.Segment(""))
}
