package retriever

import (
	"context"
	"errors"
	"testing"

	"bimrag/internal/port"
)

type stubEmbedder struct {
	queryVec []float64
	err      error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string, progress port.ProgressFunc) ([][]float64, error) {
	return nil, errors.New("not used")
}

func (s *stubEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.queryVec, nil
}

func (s *stubEmbedder) Dimension() int { return len(s.queryVec) }

func (s *stubEmbedder) ModelName() string { return "stub" }

func TestSemanticSearch(t *testing.T) {
	idx := &sliceIndex{
		texts:   []string{"wall", "door"},
		vectors: [][]float64{{1, 0}, {0, 1}},
	}
	sem := NewSemanticRetriever(idx, &stubEmbedder{queryVec: []float64{0, 1}})

	results, err := sem.Search(context.Background(), "the door", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Index != 1 {
		t.Errorf("expected index 1, got %+v", results)
	}
}

func TestSemanticSearchEmbedError(t *testing.T) {
	idx := &sliceIndex{
		texts:   []string{"wall"},
		vectors: [][]float64{{1}},
	}
	wantErr := errors.New("provider down")
	sem := NewSemanticRetriever(idx, &stubEmbedder{err: wantErr})

	if _, err := sem.Search(context.Background(), "anything", 1); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}
