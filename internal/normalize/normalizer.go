// Package normalize turns free text into the token sequence shared by the
// corpus index and user queries.
package normalize

import (
	"regexp"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// Lemmatizer reduces a word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Normalizer lowercases, strips punctuation, tokenizes, drops stop words and lemmatizes.
// It holds only read-only tables and is safe for concurrent use.
type Normalizer struct {
	lemmatizer   Lemmatizer
	stopwords    map[string]struct{}
	punctuation  *strings.Replacer
	tokenPattern *regexp.Regexp
}

// New creates a Normalizer. A nil lemmatizer leaves tokens unchanged.
func New(lemmatizer Lemmatizer) *Normalizer {
	if lemmatizer == nil {
		lemmatizer = identity{}
	}
	return &Normalizer{
		lemmatizer:   lemmatizer,
		stopwords:    englishStopwords(),
		punctuation:  punctuationStripper(),
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+`),
	}
}

// NewWordNet creates a Normalizer backed by the English golem dictionary.
func NewWordNet() (*Normalizer, error) {
	l, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}
	return New(l), nil
}

// Normalize returns the lemmatized, stop-word-free tokens of text.
func (n *Normalizer) Normalize(text string) []string {
	text = strings.TrimSpace(strings.ToLower(text))
	text = n.punctuation.Replace(text)
	raw := n.tokenPattern.FindAllString(text, -1)
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, isStop := n.stopwords[tok]; isStop {
			continue
		}
		out = append(out, n.lemmatizer.Lemma(tok))
	}
	return out
}

type identity struct{}

func (identity) Lemma(word string) string { return word }

// punctuationStripper removes the ASCII punctuation set. Apostrophes go too,
// so "don't" becomes "dont" rather than two tokens.
func punctuationStripper() *strings.Replacer {
	const punct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	pairs := make([]string, 0, 2*len(punct))
	for _, r := range punct {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}
