package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"bimrag/internal/domain"
	"bimrag/internal/port"
)

// ModelInfo describes one entry of the embedding model registry.
type ModelInfo struct {
	Name        string
	Dimension   int
	Description string
}

// The recognized embedding models and their fixed output dimensions.
var modelRegistry = []ModelInfo{
	{"text-embedding-3-small", 1536, "Newest, most efficient model"},
	{"text-embedding-3-large", 3072, "Most capable model"},
	{"text-embedding-ada-002", 1536, "Legacy model"},
}

// AvailableModels returns the registry of recognized embedding models.
func AvailableModels() []ModelInfo {
	out := make([]ModelInfo, len(modelRegistry))
	copy(out, modelRegistry)
	return out
}

func lookupModel(name string) (ModelInfo, bool) {
	for _, m := range modelRegistry {
		if m.Name == name {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint, one
// request per text so that progress can be reported per item.
// Rate-limit-class failures (429, 5xx) are retried with exponential
// backoff; everything else propagates immediately.
type OpenAIEmbedder struct {
	apiKey        string
	model         string
	baseURL       string
	dimension     int
	maxRetries    uint64
	retryInterval time.Duration
	client        *http.Client
}

// Option adjusts an OpenAIEmbedder at construction.
type Option func(*OpenAIEmbedder)

// WithBaseURL points the embedder at a different OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(e *OpenAIEmbedder) { e.baseURL = url }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *OpenAIEmbedder) { e.client.Timeout = d }
}

// WithMaxRetries caps retries of rate-limit-class failures.
func WithMaxRetries(n int) Option {
	return func(e *OpenAIEmbedder) {
		if n >= 0 {
			e.maxRetries = uint64(n)
		}
	}
}

// WithRetryInterval sets the initial backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(e *OpenAIEmbedder) { e.retryInterval = d }
}

// NewOpenAIEmbedder creates an embedder with an explicit API key.
func NewOpenAIEmbedder(apiKey, model string, opts ...Option) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, domain.ErrCredentialMissing
	}
	info, ok := lookupModel(model)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedModel, model)
	}

	e := &OpenAIEmbedder{
		apiKey:        apiKey,
		model:         model,
		baseURL:       "https://api.openai.com/v1",
		dimension:     info.Dimension,
		maxRetries:    5,
		retryInterval: 500 * time.Millisecond,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// NewFromEnv creates an embedder reading the API key from an
// environment variable.
func NewFromEnv(apiKeyEnv, model string, opts ...Option) (*OpenAIEmbedder, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: environment variable %s is empty", domain.ErrCredentialMissing, apiKeyEnv)
	}
	return NewOpenAIEmbedder(apiKey, model, opts...)
}

type embeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Embed generates one embedding per text, in input order. progress, if
// non-nil, is called after each text with monotonically non-decreasing
// (done, total) pairs.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string, progress port.ProgressFunc) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := e.embedWithRetry(ctx, text)
		if err != nil {
			return nil, err
		}
		if i > 0 && len(vec) != len(vectors[0]) {
			return nil, fmt.Errorf("%w: text %d produced %d dimensions, expected %d",
				domain.ErrDimensionMismatch, i, len(vec), len(vectors[0]))
		}
		vectors[i] = vec
		if progress != nil {
			progress(i+1, len(texts))
		}
	}
	return vectors, nil
}

// EmbedOne generates an embedding for a single text.
func (e *OpenAIEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	return e.embedWithRetry(ctx, text)
}

func (e *OpenAIEmbedder) embedWithRetry(ctx context.Context, text string) ([]float64, error) {
	var vec []float64
	op := func() error {
		v, err := e.request(ctx, text)
		if err != nil {
			var pe *domain.ProviderError
			if errors.As(err, &pe) && pe.Retryable() {
				return err
			}
			return backoff.Permanent(err)
		}
		vec = v
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, e.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return vec, nil
}

func (e *OpenAIEmbedder) request(ctx context.Context, text string) ([]float64, error) {
	reqBody := embeddingRequest{
		Input: text,
		Model: e.model,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ProviderError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, &domain.ProviderError{StatusCode: resp.StatusCode, Message: msg}
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, &domain.ProviderError{StatusCode: resp.StatusCode, Message: "unparseable response body", Err: err}
	}
	if embResp.Error != nil {
		return nil, &domain.ProviderError{StatusCode: resp.StatusCode, Message: embResp.Error.Message}
	}
	if len(embResp.Data) == 0 {
		return nil, &domain.ProviderError{StatusCode: resp.StatusCode, Message: "response contained no embedding"}
	}

	return embResp.Data[0].Embedding, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}

// MockEmbedder produces deterministic vectors without network access.
// Useful for tests and offline runs.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(ctx context.Context, texts []string, progress port.ProgressFunc) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = e.vectorFor(text)
		if progress != nil {
			progress(i+1, len(texts))
		}
	}
	return vectors, nil
}

func (e *MockEmbedder) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	return e.vectorFor(text), nil
}

func (e *MockEmbedder) vectorFor(text string) []float64 {
	vec := make([]float64, e.dimension)
	for j, r := range text {
		if j < e.dimension {
			vec[j] = float64(r) / 1000.0
		}
	}
	return vec
}

func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}
