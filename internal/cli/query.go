package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bimrag/config"
	"bimrag/internal/adapter/retriever"
	"bimrag/internal/adapter/store"
	"bimrag/internal/domain"
	"bimrag/internal/usecase"
)

var (
	queryText       string
	queryEmbeddings string
	queryTopK       int
	queryJSON       bool
	queryMinScore   float64
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search an embedded building model",
	Long: `Search for the building elements most relevant to a natural-language
query, ranked by cosine similarity.

Examples:
  bimrag query -q "load bearing walls"
  bimrag query -q "door width" --top-k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().StringVarP(&queryEmbeddings, "embeddings", "e", "", "embeddings file (default .bimrag/embeddings.bin)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", 0, "filter results below this similarity score")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	embPath := queryEmbeddings
	if embPath == "" {
		embPath = config.DefaultEmbeddingsPath(rootDir)
	}
	if _, err := os.Stat(embPath); os.IsNotExist(err) {
		return fmt.Errorf("no embeddings found at %s. Run 'bimrag embed' first", embPath)
	}

	st, err := loadStore(embPath)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg, st.Model())
	if err != nil {
		return err
	}

	minScore := cfg.Retrieve.MinScoreThreshold
	if queryMinScore > 0 {
		minScore = queryMinScore
	}
	topK := cfg.Retrieve.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	sem := retriever.NewSemanticRetriever(st, embedder)
	queryUC := usecase.NewQueryUseCase(sem, minScore)

	results, err := queryUC.Query(cmd.Context(), queryText, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(results), queryText)
	for i, r := range results {
		fmt.Printf("--- [%d] element %d (score: %.4f) ---\n", i+1, r.Index, r.Score)
		text := r.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}

// loadStore reads an embeddings file, inferring the format from the
// extension and falling back to the other format if the first read
// reports corruption.
func loadStore(path string) (*store.EmbeddingStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read embeddings file: %w", err)
	}

	st := store.NewEmbeddingStore()
	format := store.FormatForPath(path)
	if err := st.Load(data, format); err != nil {
		if !errors.Is(err, domain.ErrCorruptState) {
			return nil, err
		}
		other := store.FormatBinary
		if format == store.FormatBinary {
			other = store.FormatJSON
		}
		if err2 := st.Load(data, other); err2 != nil {
			return nil, err
		}
	}
	return st, nil
}
