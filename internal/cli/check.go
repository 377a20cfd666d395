package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ppiankov/churnwatch/internal/scenario"
)

var (
	checkScenario string
	checkWeights  string
	checkFormat   string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkScenario, "scenario", "", "Glob pattern for scenario YAML files (required)")
	checkCmd.Flags().StringVar(&checkWeights, "weights", "", "Path to weights YAML (optional)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
	checkCmd.MarkFlagRequired("scenario")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run scoring assertions from scenario files",
	Long: "Loads scenario YAML files matching a glob pattern, scores each\n" +
		"customer profile and compares the tier and score with expectations.\n\n" +
		"Exit code 0 if all cases pass, 1 if any fail.\n" +
		"Use in CI to gate weight changes on known customers.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	results, err := runScenarios(checkScenario, checkWeights)
	if err != nil {
		return err
	}

	switch checkFormat {
	case "json":
		out, err := scenario.FormatJSON(results)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(scenario.FormatText(results))
	}

	// Exit 1 if any scenario has failures
	for _, r := range results {
		if r.Failed > 0 {
			os.Exit(1)
		}
	}

	return nil
}

func runScenarios(pattern, weightsPath string) ([]*scenario.RunResult, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no scenario files match pattern: %s", pattern)
	}

	var results []*scenario.RunResult
	for _, path := range matches {
		r, err := scenario.LoadAndRun(path, weightsPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, r)
	}
	return results, nil
}
