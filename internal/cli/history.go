package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/churnwatch/internal/audit"
	"github.com/ppiankov/churnwatch/internal/history"
)

var (
	historyLimit  int
	historyFormat string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of recent assessments to show (0 = all)")
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "text", "Output format (text|json)")
}

var historyCmd = &cobra.Command{
	Use:   "history <db>",
	Short: "Show recent assessments from the history database",
	Long:  "Lists the most recent assessments recorded in the SQLite history database\nand the number of assessments at each risk level.",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

// historyReport is the --format json output of the history command.
type historyReport struct {
	Counts []history.LevelCount `json:"counts"`
	Recent []audit.Entry        `json:"recent"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rep, err := loadHistory(ctx, args[0], historyLimit)
	if err != nil {
		return err
	}

	if historyFormat == "json" {
		out, err := marshalIndent(rep)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	fmt.Print(formatHistory(rep))
	return nil
}

func loadHistory(ctx context.Context, path string, limit int) (*historyReport, error) {
	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	counts, err := store.CountByLevel(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := store.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &historyReport{Counts: counts, Recent: recent}, nil
}

func formatHistory(rep *historyReport) string {
	var b strings.Builder

	b.WriteString("By level:\n")
	if len(rep.Counts) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, c := range rep.Counts {
		fmt.Fprintf(&b, "  %-9s %d\n", c.Level, c.Count)
	}

	b.WriteString("\nRecent:\n")
	if len(rep.Recent) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, e := range rep.Recent {
		outcome := fmt.Sprintf("%3d %s", e.Score, e.Level)
		if e.Error != "" {
			outcome = "ERR " + e.Error
		}
		fmt.Fprintf(&b, "  %s  %-5s %s  %s\n", e.Timestamp, e.Source, outcome, e.AssessmentID)
	}
	return b.String()
}
