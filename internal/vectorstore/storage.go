package vectorstore

import "math"

// Vector is a sparse vector. Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero components.
func (v Vector) Len() int { return len(v.Indices) }

// Dot returns the inner product of v and w.
func (v Vector) Dot(w Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.Indices) && j < len(w.Indices) {
		switch {
		case v.Indices[i] == w.Indices[j]:
			sum += v.Values[i] * w.Values[j]
			i++
			j++
		case v.Indices[i] < w.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Storage holds vectors for one corpus and scores queries against them.
type Storage interface {
	Upsert(vectors []Vector) error
	Similarities(query Vector) []float64
	// Best returns the index and score of the closest stored vector other
	// than exclude, or -1 when there is none.
	Best(query Vector, exclude int) (int, float64)
}
