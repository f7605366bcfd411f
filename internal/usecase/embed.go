package usecase

import (
	"context"
	"fmt"
	"os"

	"bimrag/internal/adapter/cache"
	"bimrag/internal/adapter/ifc"
	"bimrag/internal/adapter/store"
	"bimrag/internal/domain"
	"bimrag/internal/port"
)

// EmbedUseCase runs the embedding pipeline: load a model file,
// materialize its elements into texts, and fill the embedding store —
// either from the fingerprint cache or by calling the embedder.
type EmbedUseCase struct {
	loader   port.ModelLoader
	embedder port.Embedder
	store    *store.EmbeddingStore
	cache    *cache.FileCache // optional, nil disables caching
}

func NewEmbedUseCase(loader port.ModelLoader, embedder port.Embedder, st *store.EmbeddingStore, fc *cache.FileCache) *EmbedUseCase {
	return &EmbedUseCase{
		loader:   loader,
		embedder: embedder,
		store:    st,
		cache:    fc,
	}
}

// EmbedResult summarizes an embedding run.
type EmbedResult struct {
	FileName  string
	Elements  int
	Dimension int
	Model     string
	CacheHit  bool
}

// Embed loads the model at path and populates the store with one
// embedding per element, in model order. progress, if non-nil, is
// forwarded to the embedder.
func (u *EmbedUseCase) Embed(ctx context.Context, path string, progress port.ProgressFunc) (*EmbedResult, error) {
	model, err := u.loader.Load(path)
	if err != nil {
		return nil, err
	}
	if len(model.Elements) == 0 {
		return nil, fmt.Errorf("model %s contains no elements", model.FileInfo.Name)
	}

	texts := ifc.DescribeAll(model.Elements)
	fingerprint := model.FileInfo.Fingerprint()

	if u.cache != nil {
		if hit, err := u.loadFromCache(fingerprint, texts); err != nil {
			return nil, err
		} else if hit {
			return u.result(model, true), nil
		}
	}

	if err := u.store.Generate(ctx, texts, u.embedder, progress); err != nil {
		return nil, err
	}

	if u.cache != nil {
		data, err := u.store.Save(store.FormatBinary)
		if err != nil {
			return nil, err
		}
		if err := u.cache.Put(fingerprint, data); err != nil {
			return nil, fmt.Errorf("failed to cache embeddings: %w", err)
		}
	}

	return u.result(model, false), nil
}

// loadFromCache tries to fill the store from a cached entry. A corrupt
// entry is evicted and treated as a miss, so a stale cache can never
// block re-embedding; the entry must also match the current element
// texts, or the cache is stale relative to the fingerprint.
func (u *EmbedUseCase) loadFromCache(fingerprint string, texts []string) (bool, error) {
	data, ok, err := u.cache.Get(fingerprint)
	if err != nil {
		return false, fmt.Errorf("cache lookup failed: %w", err)
	}
	if !ok {
		return false, nil
	}

	if err := u.store.Load(data, store.FormatBinary); err != nil {
		if derr := u.cache.Delete(fingerprint); derr != nil {
			return false, fmt.Errorf("failed to evict corrupt cache entry: %w", derr)
		}
		return false, nil
	}

	if u.store.Size() != len(texts) || u.store.Model() != u.embedder.ModelName() {
		return false, nil
	}
	return true, nil
}

func (u *EmbedUseCase) result(model *domain.Model, cacheHit bool) *EmbedResult {
	return &EmbedResult{
		FileName:  model.FileInfo.Name,
		Elements:  u.store.Size(),
		Dimension: u.store.Dimension(),
		Model:     u.store.Model(),
		CacheHit:  cacheHit,
	}
}

// Save writes the store contents to path, with the format inferred
// from the file extension. Saving an empty store is refused.
func (u *EmbedUseCase) Save(path string) error {
	if u.store.Size() == 0 {
		return domain.ErrEmptyStore
	}
	data, err := u.store.Save(store.FormatForPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write embeddings file: %w", err)
	}
	return nil
}
