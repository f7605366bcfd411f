package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bimrag/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "bimrag",
	Short: "Semantic search over building models",
	Long: `bimrag embeds the elements of a building model (pre-structured JSON
exported from IFC) with a text-embedding API and answers natural-language
queries with the most relevant elements.

Example usage:
  bimrag embed model.json               # Embed a building model
  bimrag query -q "fire rated doors"    # Find the most relevant elements
  bimrag inspect .bimrag/embeddings.bin # Show embeddings file stats`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./bimrag.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
