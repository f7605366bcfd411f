package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the bimrag tool.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"`    // "openai" or "mock"
	Model          string `yaml:"model"`       // e.g. "text-embedding-3-small"
	APIKeyEnv      string `yaml:"api_key_env"` // environment variable for the API key
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK              int     `yaml:"top_k"`
	MinScoreThreshold float64 `yaml:"min_score_threshold"` // filter results below this score (0 = disabled)
}

// CacheConfig holds embeddings cache configuration.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:       "openai",
			Model:          "text-embedding-3-small",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 60,
			MaxRetries:     5,
		},
		Retrieve: RetrieveConfig{
			TopK:              5,
			MinScoreThreshold: 0,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for bimrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try bimrag.yaml in the directory
	path := filepath.Join(dir, "bimrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .bimrag/config.yaml
	path = filepath.Join(dir, ".bimrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CachePath returns the path to the embeddings cache database.
func CachePath(dir string) string {
	return filepath.Join(dir, ".bimrag", "cache.db")
}

// DefaultEmbeddingsPath returns the default embeddings file path.
func DefaultEmbeddingsPath(dir string) string {
	return filepath.Join(dir, ".bimrag", "embeddings.bin")
}

// EnsureDir ensures the .bimrag directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".bimrag"), 0755)
}
