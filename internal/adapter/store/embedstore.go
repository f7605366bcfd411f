package store

import (
	"context"
	"fmt"
	"sync"

	"bimrag/internal/domain"
	"bimrag/internal/port"
)

// EmbeddingStore is an in-memory, index-aligned collection of
// (text, vector) pairs plus the identifier of the model that produced
// them. texts[i] always corresponds to vectors[i]; every mutation
// replaces the whole contents, so a failed operation leaves the
// previous state intact.
//
// An RWMutex guards access: Generate and Load take the write lock,
// everything else reads. Callers running concurrent mutations must
// still serialize them against each other, since both are
// replace-the-world operations.
type EmbeddingStore struct {
	mu      sync.RWMutex
	model   string
	texts   []string
	vectors [][]float64
}

func NewEmbeddingStore() *EmbeddingStore {
	return &EmbeddingStore{}
}

// Generate embeds all texts in input order through the given embedder
// and replaces the store contents. On any embedder failure the store
// keeps its pre-call state, so the caller can retry without data loss.
func (s *EmbeddingStore) Generate(ctx context.Context, texts []string, embedder port.Embedder, progress port.ProgressFunc) error {
	vectors, err := embedder.Embed(ctx, texts, progress)
	if err != nil {
		return err
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(texts))
	}
	for i := 1; i < len(vectors); i++ {
		if len(vectors[i]) != len(vectors[0]) {
			return fmt.Errorf("%w: vector %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, i, len(vectors[i]), len(vectors[0]))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append([]string(nil), texts...)
	s.vectors = vectors
	s.model = embedder.ModelName()
	return nil
}

// Load replaces the store contents from persisted bytes.
func (s *EmbeddingStore) Load(data []byte, format Format) error {
	texts, vectors, model, err := decodeState(data, format)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = texts
	s.vectors = vectors
	s.model = model
	return nil
}

// Save serializes the current contents. Zero-entry stores are
// encodable; refusing to save an empty store is a caller policy.
func (s *EmbeddingStore) Save(format Format) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return encodeState(s.texts, s.vectors, s.model, format)
}

// Size returns the number of stored entries.
func (s *EmbeddingStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.texts)
}

// Dimension returns the vector dimensionality, or 0 for an empty store.
func (s *EmbeddingStore) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.vectors) == 0 {
		return 0
	}
	return len(s.vectors[0])
}

// Model returns the identifier of the model that produced the vectors.
func (s *EmbeddingStore) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// TextAt returns the stored text at index i.
func (s *EmbeddingStore) TextAt(i int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.texts) {
		return "", fmt.Errorf("index %d out of range [0, %d)", i, len(s.texts))
	}
	return s.texts[i], nil
}

// VectorAt returns the stored vector at index i.
func (s *EmbeddingStore) VectorAt(i int) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.vectors) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", i, len(s.vectors))
	}
	return s.vectors[i], nil
}

// Snapshot returns the current texts and vectors under the read lock.
// The outer slices are copies; the inner vectors are shared but never
// mutated in place (mutations replace the whole contents).
func (s *EmbeddingStore) Snapshot() (texts []string, vectors [][]float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	texts = append([]string(nil), s.texts...)
	vectors = append([][]float64(nil), s.vectors...)
	return texts, vectors
}
