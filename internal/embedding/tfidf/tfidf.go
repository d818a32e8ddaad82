package tfidf

import (
	"errors"
	"math"
	"sort"

	"wikichat/internal/vectorstore"
)

// ErrEmptyVocabulary is returned when no document of the corpus yields a token.
var ErrEmptyVocabulary = errors.New("no tokens found in corpus")

// Embedder implements a simple TF-IDF vectorizer.
// It builds a vocabulary from the corpus and computes IDF values.
type Embedder struct {
	tokenize   func(string) []string
	vocabulary map[string]int
	idf        []float64
	dimension  int
}

// NewEmbedder creates a TF-IDF embedder that splits documents with tokenize.
func NewEmbedder(tokenize func(string) []string) *Embedder {
	return &Embedder{
		tokenize:   tokenize,
		vocabulary: make(map[string]int),
	}
}

// FitTransform builds the vocabulary and IDF values from corpus and returns
// the vector of every document, tokenizing each document once.
func (e *Embedder) FitTransform(corpus []string) ([]vectorstore.Vector, error) {
	docs, err := e.fit(corpus)
	if err != nil {
		return nil, err
	}
	out := make([]vectorstore.Vector, len(docs))
	for i, tokens := range docs {
		out[i] = e.weigh(tokens)
	}
	return out, nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

func (e *Embedder) fit(corpus []string) ([][]string, error) {
	if len(corpus) == 0 {
		return nil, errors.New("empty corpus for TF-IDF fit")
	}
	docs := make([][]string, len(corpus))
	df := make(map[string]int)
	for i, text := range corpus {
		tokens := e.tokenize(text)
		docs[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	// Create stable ordering for vocabulary
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	N := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		// Smoothed IDF
		e.idf[i] = math.Log((1+N)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	return docs, nil
}

// weigh returns the L2-normalized TF-IDF vector of tokens. Raw counts are
// used for TF; any per-document scaling vanishes in the normalization.
func (e *Embedder) weigh(tokens []string) vectorstore.Vector {
	tf := make(map[int]int)
	for _, tok := range tokens {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return vectorstore.Vector{}
	}
	v := vectorstore.Vector{
		Indices: make([]int, 0, len(tf)),
		Values:  make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		v.Indices = append(v.Indices, idx)
	}
	sort.Ints(v.Indices)
	for _, idx := range v.Indices {
		v.Values = append(v.Values, float64(tf[idx])*e.idf[idx])
	}
	// L2 normalize
	if norm := v.Norm(); norm > 0 {
		for i := range v.Values {
			v.Values[i] /= norm
		}
	}
	return v
}
