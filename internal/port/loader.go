package port

import "bimrag/internal/domain"

// ModelLoader reads a building-model file into a domain model.
// Implementations must preserve the element order of the source file,
// since that order becomes the similarity-search index order.
type ModelLoader interface {
	Load(path string) (*domain.Model, error)
}
