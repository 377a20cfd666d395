package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/churnwatch/internal/scoring"
	"github.com/ppiankov/churnwatch/internal/weightsdiff"
)

var diffFormat string

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "text", "Output format (text|json)")
}

var diffCmd = &cobra.Command{
	Use:   "diff <old.yaml> <new.yaml>",
	Short: "Compare two weights files and show changes",
	Long:  "Loads two weights YAML files and shows what changed in human-readable terms:\nage, tenure and charge bands, support call points, contract, payment and\ncustomer type weights, tiers added/removed/changed.",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	out, err := diffWeights(args[0], args[1], diffFormat)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func diffWeights(oldPath, newPath, format string) (string, error) {
	oldW, err := scoring.LoadWeights(oldPath)
	if err != nil {
		return "", fmt.Errorf("load old weights: %w", err)
	}

	newW, err := scoring.LoadWeights(newPath)
	if err != nil {
		return "", fmt.Errorf("load new weights: %w", err)
	}

	result := weightsdiff.Diff(oldW, newW)
	result.OldPath = oldPath
	result.NewPath = newPath

	if format == "json" {
		out, err := weightsdiff.FormatJSON(result)
		if err != nil {
			return "", err
		}
		return out + "\n", nil
	}
	return weightsdiff.FormatText(result), nil
}
