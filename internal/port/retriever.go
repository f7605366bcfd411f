package port

import (
	"context"

	"bimrag/internal/domain"
)

// Retriever answers a natural-language query with ranked results.
// A downstream consumer (chat layer, UI) takes the ranked results from
// here; the core owes it nothing beyond texts with scores and indexes.
type Retriever interface {
	// Search returns the top-k most similar stored texts, best first.
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}
