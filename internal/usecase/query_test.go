package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"bimrag/internal/adapter/ifc"
	"bimrag/internal/adapter/retriever"
	"bimrag/internal/adapter/store"
	"bimrag/internal/domain"
	"bimrag/internal/port"
)

// scriptedEmbedder returns a fixed vector per known text and a fixed
// query vector for everything else.
type scriptedEmbedder struct {
	byText   map[string][]float64
	queryVec []float64
}

func (s *scriptedEmbedder) Embed(ctx context.Context, texts []string, progress port.ProgressFunc) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, ok := s.byText[text]
		if !ok {
			return nil, errors.New("unexpected text: " + text)
		}
		out[i] = vec
		if progress != nil {
			progress(i+1, len(texts))
		}
	}
	return out, nil
}

func (s *scriptedEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	return s.queryVec, nil
}

func (s *scriptedEmbedder) Dimension() int { return len(s.queryVec) }

func (s *scriptedEmbedder) ModelName() string { return "scripted" }

// The canonical walkthrough: three elements materialize to known
// texts, embed to known vectors, and a query for the first vector
// ranks the exact match first and the diagonal second.
func TestEndToEndScenario(t *testing.T) {
	elements := []domain.Element{
		{Type: "IfcWall", Name: "Wall-01"},
		{
			Type: "IfcDoor",
			Name: "Door-01",
			PropertySets: []domain.PropertySet{
				{
					Name: "Pset_Door",
					Properties: []domain.Property{
						{Name: "Width", Value: 900, Unit: "mm"},
					},
				},
			},
		},
		{Type: "IfcWindow", Name: ""},
	}

	texts := ifc.DescribeAll(elements)
	wantTexts := []string{
		"Element Type: IfcWall | Name: Wall-01",
		"Element Type: IfcDoor | Name: Door-01 | Property Set: Pset_Door | Width: 900 mm",
		"Element Type: IfcWindow",
	}
	for i := range wantTexts {
		if texts[i] != wantTexts[i] {
			t.Fatalf("text %d: expected %q, got %q", i, wantTexts[i], texts[i])
		}
	}

	emb := &scriptedEmbedder{
		byText: map[string][]float64{
			wantTexts[0]: {1, 0},
			wantTexts[1]: {0, 1},
			wantTexts[2]: {1, 1},
		},
		queryVec: []float64{1, 0},
	}

	st := store.NewEmbeddingStore()
	if err := st.Generate(context.Background(), texts, emb, nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	sem := retriever.NewSemanticRetriever(st, emb)
	uc := NewQueryUseCase(sem, 0)

	results, err := uc.Query(context.Background(), "find the wall", 2)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Index != 0 {
		t.Errorf("expected index 0 first, got %d", results[0].Index)
	}
	if math.Abs(results[0].Score-1.0) > 1e-6 {
		t.Errorf("expected score 1.0, got %f", results[0].Score)
	}
	if results[0].Text != wantTexts[0] {
		t.Errorf("expected wall text, got %q", results[0].Text)
	}

	if results[1].Index != 2 {
		t.Errorf("expected index 2 second, got %d", results[1].Index)
	}
	if math.Abs(results[1].Score-math.Sqrt2/2) > 1e-6 {
		t.Errorf("expected score ~0.707, got %f", results[1].Score)
	}

	for _, r := range results {
		if r.Index == 1 {
			t.Error("the orthogonal door must never appear in the top 2")
		}
	}
}

func TestQueryMinScoreFilter(t *testing.T) {
	emb := &scriptedEmbedder{
		byText: map[string][]float64{
			"a": {1, 0},
			"b": {0, 1},
		},
		queryVec: []float64{1, 0},
	}

	st := store.NewEmbeddingStore()
	if err := st.Generate(context.Background(), []string{"a", "b"}, emb, nil); err != nil {
		t.Fatal(err)
	}

	uc := NewQueryUseCase(retriever.NewSemanticRetriever(st, emb), 0.5)
	results, err := uc.Query(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result above threshold, got %d", len(results))
	}
	if results[0].Index != 0 {
		t.Errorf("expected index 0, got %d", results[0].Index)
	}
}

func TestBest(t *testing.T) {
	emb := &scriptedEmbedder{
		byText: map[string][]float64{
			"a": {0, 1},
			"b": {1, 0},
		},
		queryVec: []float64{1, 0},
	}

	st := store.NewEmbeddingStore()
	if err := st.Generate(context.Background(), []string{"a", "b"}, emb, nil); err != nil {
		t.Fatal(err)
	}

	uc := NewQueryUseCase(retriever.NewSemanticRetriever(st, emb), 0)
	best, err := uc.Best(context.Background(), "q")
	if err != nil {
		t.Fatalf("best failed: %v", err)
	}
	if best.Index != 1 || best.Text != "b" {
		t.Errorf("expected b at index 1, got %+v", best)
	}
}

func TestQueryEmptyStore(t *testing.T) {
	emb := &scriptedEmbedder{queryVec: []float64{1, 0}}
	st := store.NewEmbeddingStore()

	uc := NewQueryUseCase(retriever.NewSemanticRetriever(st, emb), 0)
	if _, err := uc.Query(context.Background(), "q", 1); !errors.Is(err, domain.ErrEmptyStore) {
		t.Errorf("expected ErrEmptyStore, got %v", err)
	}
}
