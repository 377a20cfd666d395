package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/churnwatch/internal/audit"
	"github.com/ppiankov/churnwatch/internal/model"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

var (
	tailLines     int
	summarySource string
	summarySince  string
	summaryUntil  string
	summaryFormat string
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditCmd.AddCommand(auditSummaryCmd)
	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of recent entries to show")
	auditSummaryCmd.Flags().StringVar(&summarySource, "source", "", "Only count entries from this source (cli|web|grpc|mcp|sdk)")
	auditSummaryCmd.Flags().StringVar(&summarySince, "since", "", "Only count entries at or after this RFC 3339 time")
	auditSummaryCmd.Flags().StringVar(&summaryUntil, "until", "", "Only count entries at or before this RFC 3339 time")
	auditSummaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "text", "Output format (text|json)")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log operations",
	Long:  "Commands for verifying and inspecting the hash-chained assessment audit log.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of an audit log",
	Long:  "Walks the JSONL audit log and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail <path>",
	Short: "Show recent audit log entries",
	Long:  "Reads the last N entries from the JSONL audit log and pretty-prints them.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditTail,
}

var auditSummaryCmd = &cobra.Command{
	Use:   "summary <path>",
	Short: "Count assessments per risk level",
	Long:  "Aggregates the audit log: total assessments, failures, count per risk level\nand the average score of successful assessments.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditSummary,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	if result.Valid {
		fmt.Printf("OK: %d entries verified\n", result.Lines)
		return nil
	}
	fmt.Fprintf(os.Stderr, "FAILED at line %d: %s\n", result.ErrorLine, result.Error)
	os.Exit(1)
	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	entries, err := audit.Tail(args[0], tailLines)
	if err != nil {
		return err
	}

	for _, e := range entries {
		out, _ := json.MarshalIndent(e, "", "  ")
		fmt.Println(string(out))
	}
	return nil
}

func runAuditSummary(cmd *cobra.Command, args []string) error {
	filter, err := summaryFilter(summarySource, summarySince, summaryUntil)
	if err != nil {
		return err
	}

	entries, err := audit.Read(args[0], filter)
	if err != nil {
		return err
	}
	s := audit.Summarize(entries)

	if summaryFormat == "json" {
		out, err := marshalIndent(s)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}
	fmt.Print(formatSummary(s))
	return nil
}

func summaryFilter(source, since, until string) (audit.Filter, error) {
	f := audit.Filter{Source: source}
	var err error
	if since != "" {
		if f.From, err = time.Parse(time.RFC3339, since); err != nil {
			return f, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if until != "" {
		if f.To, err = time.Parse(time.RFC3339, until); err != nil {
			return f, fmt.Errorf("invalid --until: %w", err)
		}
	}
	return f, nil
}

func formatSummary(s audit.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assessments: %d (%d failed)\n", s.Total, s.Errors)
	if s.Total == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "Period:      %s .. %s\n", s.First, s.Last)
	fmt.Fprintf(&b, "Avg score:   %.1f\n", s.AvgScore)

	levels := make([]string, 0, len(s.ByLevel))
	for l := range s.ByLevel {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool {
		return scoring.LevelRank(model.RiskLevel(levels[i])) > scoring.LevelRank(model.RiskLevel(levels[j]))
	})

	b.WriteString("\n")
	for _, l := range levels {
		fmt.Fprintf(&b, "  %-9s %d\n", l, s.ByLevel[l])
	}
	return b.String()
}
