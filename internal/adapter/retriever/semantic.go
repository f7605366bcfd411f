package retriever

import (
	"context"
	"fmt"

	"bimrag/internal/domain"
	"bimrag/internal/port"
)

// SemanticRetriever answers text queries against an embedding index:
// it embeds the query with the same model that produced the index and
// ranks the stored entries by cosine similarity.
type SemanticRetriever struct {
	index    Index
	embedder port.Embedder
}

func NewSemanticRetriever(index Index, embedder port.Embedder) *SemanticRetriever {
	return &SemanticRetriever{
		index:    index,
		embedder: embedder,
	}
}

func (r *SemanticRetriever) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	vec, err := r.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return Search(vec, r.index, k)
}
