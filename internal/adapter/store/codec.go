package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"bimrag/internal/domain"
)

// Format selects a persistence encoding for embedding-store state.
type Format string

const (
	// FormatBinary is a compact msgpack encoding.
	FormatBinary Format = "binary"
	// FormatJSON is a UTF-8 JSON encoding, interchangeable with binary.
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "binary", "msgpack", "bin":
		return FormatBinary, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
	}
}

// FormatForPath infers the persistence format from a file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatBinary
}

// persistedState is the durable representation of a store: exactly the
// vectors, their source texts, and the model that produced them. Field
// names match the embeddings files the persistence contract defines.
type persistedState struct {
	Embeddings [][]float64 `json:"embeddings" msgpack:"embeddings"`
	Texts      []string    `json:"texts" msgpack:"texts"`
	Model      string      `json:"model" msgpack:"model"`
}

// decodedState uses pointer fields so that absent keys are
// distinguishable from empty values.
type decodedState struct {
	Embeddings *[][]float64 `json:"embeddings" msgpack:"embeddings"`
	Texts      *[]string    `json:"texts" msgpack:"texts"`
	Model      *string      `json:"model" msgpack:"model"`
}

func encodeState(texts []string, vectors [][]float64, model string, format Format) ([]byte, error) {
	// Normalize nil slices so empty stores round-trip as empty arrays,
	// not as missing fields.
	if texts == nil {
		texts = []string{}
	}
	if vectors == nil {
		vectors = [][]float64{}
	}
	state := persistedState{
		Embeddings: vectors,
		Texts:      texts,
		Model:      model,
	}

	switch format {
	case FormatBinary:
		data, err := msgpack.Marshal(state)
		if err != nil {
			return nil, fmt.Errorf("failed to encode embeddings: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.Marshal(state)
		if err != nil {
			return nil, fmt.Errorf("failed to encode embeddings: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
}

func decodeState(data []byte, format Format) (texts []string, vectors [][]float64, model string, err error) {
	var state decodedState

	switch format {
	case FormatBinary:
		if err := msgpack.Unmarshal(data, &state); err != nil {
			return nil, nil, "", fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &state); err != nil {
			return nil, nil, "", fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
		}
	default:
		return nil, nil, "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}

	if state.Embeddings == nil {
		return nil, nil, "", fmt.Errorf("%w: missing embeddings field", domain.ErrCorruptState)
	}
	if state.Texts == nil {
		return nil, nil, "", fmt.Errorf("%w: missing texts field", domain.ErrCorruptState)
	}
	if state.Model == nil {
		return nil, nil, "", fmt.Errorf("%w: missing model field", domain.ErrCorruptState)
	}

	texts = *state.Texts
	vectors = *state.Embeddings
	model = *state.Model

	if len(texts) != len(vectors) {
		return nil, nil, "", fmt.Errorf("%w: %d texts but %d vectors",
			domain.ErrCorruptState, len(texts), len(vectors))
	}
	for i := 1; i < len(vectors); i++ {
		if len(vectors[i]) != len(vectors[0]) {
			return nil, nil, "", fmt.Errorf("%w: vector %d has %d dimensions, expected %d",
				domain.ErrCorruptState, i, len(vectors[i]), len(vectors[0]))
		}
	}

	return texts, vectors, model, nil
}
