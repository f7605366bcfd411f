package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <embeddings-file>",
	Short: "Show embeddings file statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	st, err := loadStore(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Entries:   %d\n", st.Size())
	fmt.Printf("Dimension: %d\n", st.Dimension())
	fmt.Printf("Model:     %s\n", st.Model())

	return nil
}
