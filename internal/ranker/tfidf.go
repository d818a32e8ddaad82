// Package ranker picks the earlier sentence most similar to the newest one.
package ranker

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wikichat/internal/domain"
	"wikichat/internal/embedding/tfidf"
	"wikichat/internal/vectorstore"
	"wikichat/internal/vectorstore/memory"
)

// TFIDF refits a TF-IDF model over the whole corpus on every call, so the
// vocabulary always reflects every sentence seen so far.
type TFIDF struct {
	normalizer domain.Normalizer
	logger     *zap.Logger
}

var _ domain.Ranker = (*TFIDF)(nil)

func NewTFIDF(normalizer domain.Normalizer, logger *zap.Logger) *TFIDF {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TFIDF{normalizer: normalizer, logger: logger}
}

// Scores returns the cosine similarity of the last sentence against every
// sentence, itself included.
func (r *TFIDF) Scores(sentences []string) ([]float64, error) {
	ix, err := r.index(sentences)
	if err != nil {
		return nil, err
	}
	return ix.store.Similarities(ix.query), nil
}

// Rank returns the best match for the last sentence among all others.
// The query's own position is skipped explicitly, so duplicates of the
// query elsewhere in the corpus still count as matches.
func (r *TFIDF) Rank(sentences []string) (domain.Match, error) {
	if len(sentences) < 2 {
		return domain.Match{}, domain.ErrNoMatch
	}
	ix, err := r.index(sentences)
	if err != nil {
		return domain.Match{}, err
	}
	query := len(sentences) - 1
	idx, score := ix.store.Best(ix.query, query)
	r.logger.Debug("ranked query",
		zap.Int("corpus", len(sentences)),
		zap.Int("vocabulary", ix.dimension),
		zap.Int("best", idx),
		zap.Float64("score", score))
	if idx < 0 || score <= 0 {
		return domain.Match{}, domain.ErrNoMatch
	}
	return domain.Match{Index: idx, Score: score}, nil
}

type indexed struct {
	store     vectorstore.Storage
	query     vectorstore.Vector
	dimension int
}

func (r *TFIDF) index(sentences []string) (*indexed, error) {
	if len(sentences) == 0 {
		return nil, domain.ErrNoMatch
	}
	emb := tfidf.NewEmbedder(r.normalizer.Normalize)
	vecs, err := emb.FitTransform(sentences)
	if errors.Is(err, tfidf.ErrEmptyVocabulary) {
		return nil, domain.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("vectorize corpus: %w", err)
	}
	var store vectorstore.Storage = memory.NewStorage()
	if err := store.Upsert(vecs); err != nil {
		return nil, fmt.Errorf("index corpus: %w", err)
	}
	return &indexed{
		store:     store,
		query:     vecs[len(vecs)-1],
		dimension: emb.Dimension(),
	}, nil
}
