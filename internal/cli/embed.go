package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"bimrag/config"
	"bimrag/internal/adapter/cache"
	"bimrag/internal/adapter/embedding"
	"bimrag/internal/adapter/ifc"
	"bimrag/internal/adapter/store"
	"bimrag/internal/port"
	"bimrag/internal/usecase"
)

var (
	embedOutput  string
	embedFormat  string
	embedModel   string
	embedNoCache bool
)

var embedCmd = &cobra.Command{
	Use:   "embed <model-file>",
	Short: "Embed a building model file",
	Long: `Generate embeddings for every element of a building model file and
write them to an embeddings file for later querying.

Examples:
  bimrag embed model.json
  bimrag embed model.json -o model.embeddings.json --format json
  bimrag embed model.json --model text-embedding-3-large`,
	Args: cobra.ExactArgs(1),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
	embedCmd.Flags().StringVarP(&embedOutput, "output", "o", "", "output embeddings file (default .bimrag/embeddings.bin)")
	embedCmd.Flags().StringVar(&embedFormat, "format", "", "persistence format: binary or json (default from output extension)")
	embedCmd.Flags().StringVar(&embedModel, "model", "", "embedding model (default from config)")
	embedCmd.Flags().BoolVar(&embedNoCache, "no-cache", false, "skip the embeddings cache")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("model file does not exist: %w", err)
	}

	cfg := GetConfig()
	rootDir := GetRootDir()

	outPath, format, err := resolveOutput(rootDir)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg, embedModel)
	if err != nil {
		return err
	}

	var fc *cache.FileCache
	if cfg.Cache.Enabled && !embedNoCache {
		if err := config.EnsureDir(rootDir); err != nil {
			return fmt.Errorf("failed to create .bimrag directory: %w", err)
		}
		fc, err = cache.Open(config.CachePath(rootDir))
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		defer fc.Close()
	}

	st := store.NewEmbeddingStore()
	embedUC := usecase.NewEmbedUseCase(ifc.NewLoader(), embedder, st, fc)

	fmt.Printf("Embedding %s with %s...\n", filepath.Base(path), embedder.ModelName())

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex

	progress := func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	start := time.Now()
	result, err := embedUC.Embed(cmd.Context(), path, progress)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := embedUC.Save(outPath); err != nil {
		return fmt.Errorf("failed to save embeddings: %w", err)
	}

	if result.CacheHit {
		fmt.Printf("Reused cached embeddings for %s\n", result.FileName)
	}
	fmt.Printf("Embedded %d elements (%d dimensions, model %s) in %s\n",
		result.Elements, result.Dimension, result.Model, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Embeddings written to %s (%s format)\n", outPath, format)

	return nil
}

// resolveOutput decides the embeddings file path and format. An
// explicit --format wins; otherwise the output extension decides.
func resolveOutput(rootDir string) (string, store.Format, error) {
	format := store.FormatBinary
	if embedFormat != "" {
		f, err := store.ParseFormat(embedFormat)
		if err != nil {
			return "", "", err
		}
		format = f
	}

	outPath := embedOutput
	if outPath == "" {
		outPath = config.DefaultEmbeddingsPath(rootDir)
		if format == store.FormatJSON {
			outPath = outPath[:len(outPath)-len(filepath.Ext(outPath))] + ".json"
		}
	} else if embedFormat == "" {
		format = store.FormatForPath(outPath)
	}

	return outPath, format, nil
}

// newEmbedder builds the configured embedding provider.
func newEmbedder(cfg *config.Config, model string) (port.Embedder, error) {
	if model == "" {
		model = cfg.Embedding.Model
	}

	if cfg.Embedding.Provider == "mock" {
		return embedding.NewMockEmbedder(64), nil
	}

	return embedding.NewFromEnv(cfg.Embedding.APIKeyEnv, model,
		embedding.WithTimeout(time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second),
		embedding.WithMaxRetries(cfg.Embedding.MaxRetries),
	)
}
