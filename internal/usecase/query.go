package usecase

import (
	"context"

	"bimrag/internal/domain"
	"bimrag/internal/port"
)

// QueryUseCase handles natural-language search over an embedded model.
type QueryUseCase struct {
	retriever         port.Retriever
	minScoreThreshold float64 // filter results below this score (0 = disabled)
}

func NewQueryUseCase(retriever port.Retriever, minScoreThreshold float64) *QueryUseCase {
	return &QueryUseCase{
		retriever:         retriever,
		minScoreThreshold: minScoreThreshold,
	}
}

// Query returns the top-k results for the query text, best first.
func (u *QueryUseCase) Query(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	results, err := u.retriever.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	if u.minScoreThreshold > 0 {
		results = u.filterByThreshold(results)
	}
	return results, nil
}

// Best returns the single most similar result.
func (u *QueryUseCase) Best(ctx context.Context, query string) (domain.SearchResult, error) {
	results, err := u.Query(ctx, query, 1)
	if err != nil {
		return domain.SearchResult{}, err
	}
	if len(results) == 0 {
		return domain.SearchResult{}, domain.ErrEmptyStore
	}
	return results[0], nil
}

func (u *QueryUseCase) filterByThreshold(results []domain.SearchResult) []domain.SearchResult {
	filtered := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= u.minScoreThreshold {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
