package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/churnwatch/internal/scoring"
)

var (
	initWeightsPath  string
	initWeightsForce bool
)

func init() {
	rootCmd.AddCommand(initWeightsCmd)
	initWeightsCmd.Flags().StringVar(&initWeightsPath, "path", "", "Where to write the file (default ~/.churnwatch/weights.yaml)")
	initWeightsCmd.Flags().BoolVar(&initWeightsForce, "force", false, "Overwrite an existing weights file")
}

var initWeightsCmd = &cobra.Command{
	Use:   "init-weights",
	Short: "Generate default weights.yaml with comments",
	Long:  "Creates ~/.churnwatch/weights.yaml with the built-in bands, tables and tiers.\nEdit this file to tune churn scoring without rebuilding.",
	RunE:  runInitWeights,
}

func runInitWeights(cmd *cobra.Command, args []string) error {
	path := initWeightsPath
	if path == "" {
		p, err := scoring.DefaultPath()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !initWeightsForce {
		return fmt.Errorf("weights.yaml already exists at %s (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(scoring.DefaultWeightsYAML()), 0644); err != nil {
		return fmt.Errorf("failed to write weights.yaml: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}

// resolveWeightsPath returns the weights file a command will load,
// falling back to ~/.churnwatch/weights.yaml.
func resolveWeightsPath(path string) string {
	if path != "" {
		return path
	}
	p, err := scoring.DefaultPath()
	if err != nil {
		return ""
	}
	return p
}
