package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"bimrag/internal/adapter/embedding"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported embedding models",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	fmt.Println("Supported embedding models:")
	for _, m := range embedding.AvailableModels() {
		fmt.Printf("  %-26s %4d dimensions  %s\n", m.Name, m.Dimension, m.Description)
	}
	return nil
}
