package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"bimrag/internal/adapter/fs"
)

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List candidate building-model files",
	Long: `List the building-model files found under a directory, so one can be
picked for 'bimrag embed'.

Examples:
  bimrag list
  bimrag list ./sample_models`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	root := GetRootDir()
	if len(args) > 0 {
		var err error
		root, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	walker := fs.NewWalker(
		[]string{"**/*.json"},
		[]string{"**/node_modules/**", "**/.git/**", "**/.bimrag/**"},
	)
	files, err := walker.Walk(root)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}

	if len(files) == 0 {
		fmt.Println("No model files found.")
		return nil
	}
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		if err != nil {
			rel = f.Path
		}
		fmt.Printf("%s (%d bytes)\n", rel, f.Size)
	}

	return nil
}
