package memory

import (
	"errors"
	"sync"

	"wikichat/internal/vectorstore"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu      sync.RWMutex
	vectors []vectorstore.Vector
}

var _ vectorstore.Storage = (*Storage)(nil)

func NewStorage() *Storage { return &Storage{} }

// Upsert appends vectors. Every vector must be L2-normalized or empty.
func (s *Storage) Upsert(vectors []vectorstore.Vector) error {
	for _, v := range vectors {
		if len(v.Indices) != len(v.Values) {
			return errors.New("vector indices and values length mismatch")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Similarities returns the cosine similarity of query against every stored
// vector, in insertion order.
func (s *Storage) Similarities(query vectorstore.Vector) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// vectors are assumed L2-normalized
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = s.vectors[i].Dot(query)
	}
	return scores
}

// Best returns the index and score of the highest similarity, skipping
// exclude. Ties go to the higher index. It returns -1 when nothing is stored
// besides exclude.
func (s *Storage) Best(query vectorstore.Vector, exclude int) (int, float64) {
	scores := s.Similarities(query)
	best, bestScore := -1, 0.0
	for i, score := range scores {
		if i == exclude {
			continue
		}
		if best == -1 || score >= bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore
}
