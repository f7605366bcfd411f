package retriever

import (
	"fmt"
	"math"
	"sort"

	"bimrag/internal/domain"
)

// epsilon guards the cosine denominator against all-zero vectors.
// Fixed, not tunable: changing it changes every score.
const epsilon = 1e-8

// Index is the read surface the search engine needs from an embedding
// store.
type Index interface {
	Size() int
	Dimension() int
	Snapshot() (texts []string, vectors [][]float64)
}

// Search ranks every stored vector by cosine similarity to the query
// and returns the top-k, best first. Result length is
// min(topK, index size).
//
// The ranking is a total order: descending similarity, ties broken by
// ascending original index. Equal inputs therefore always produce the
// same output, regardless of internal iteration order.
func Search(query []float64, idx Index, topK int) ([]domain.SearchResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top-k must be at least 1, got %d", topK)
	}

	texts, vectors := idx.Snapshot()
	if len(vectors) == 0 {
		return nil, domain.ErrEmptyStore
	}
	if len(query) != len(vectors[0]) {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrDimensionMismatch, len(query), len(vectors[0]))
	}

	qnorm := norm(query)

	results := make([]domain.SearchResult, len(vectors))
	for i, v := range vectors {
		results[i] = domain.SearchResult{
			Text:  texts[i],
			Score: dot(query, v) / (qnorm*norm(v) + epsilon),
			Index: i,
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Index < results[j].Index
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
