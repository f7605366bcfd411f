package port

import "context"

// ProgressFunc reports fractional progress of a batch embedding call.
// It is invoked after each text completes, with done in [1, total].
// Purely observational; implementations may pass nil.
type ProgressFunc func(done, total int)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates one embedding per input text, in input order.
	// progress, if non-nil, is called after each text is embedded.
	Embed(ctx context.Context, texts []string, progress ProgressFunc) ([][]float64, error)

	// EmbedOne generates an embedding for a single text.
	EmbedOne(ctx context.Context, text string) ([]float64, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
