package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableLemmatizer map[string]string

func (t tableLemmatizer) Lemma(word string) string {
	if l, ok := t[word]; ok {
		return l
	}
	return word
}

func TestNormalize(t *testing.T) {
	n := New(tableLemmatizer{"languages": "language", "created": "create"})

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercase and stopwords", "  The Python Language  ", []string{"python", "language"}},
		{"punctuation removed", "Hello, world! (again)", []string{"hello", "world"}},
		{"lemmatized", "Languages were created.", []string{"language", "create"}},
		{"contraction joined", "Don't panic", []string{"panic"}},
		{"numbers kept", "Released in 1991.", []string{"released", "1991"}},
		{"only stopwords", "it is what it is", nil},
		{"empty", "   ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := New(nil)
	in := "When was Python first created by Guido van Rossum?"
	assert.Equal(t, n.Normalize(in), n.Normalize(in))
	assert.Equal(t, []string{"python", "first", "created", "guido", "van", "rossum"}, n.Normalize(in))
}

func TestNewWordNet(t *testing.T) {
	n, err := NewWordNet()
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, n.Normalize("Cats and dogs"))
}
