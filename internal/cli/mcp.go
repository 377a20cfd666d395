package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	churnmcp "github.com/ppiankov/churnwatch/internal/mcp"
)

var (
	mcpWeights   string
	mcpAuditLog  string
	mcpHistoryDB string
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpWeights, "weights", "", "Path to weights YAML (default ~/.churnwatch/weights.yaml)")
	mcpCmd.Flags().StringVar(&mcpAuditLog, "audit-log", "", "Path to audit log JSONL file")
	mcpCmd.Flags().StringVar(&mcpHistoryDB, "history-db", "", "Path to SQLite history database")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long:  "Runs churnwatch as an MCP (Model Context Protocol) server over stdio.\nExposes tools: churn_score, churn_tiers.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv, err := churnmcp.New(churnmcp.Config{
		WeightsPath:  mcpWeights,
		AuditLogPath: mcpAuditLog,
		HistoryPath:  mcpHistoryDB,
		Version:      version,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startReloader(ctx, srv.Engine(), mcpWeights)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "churnwatch MCP server running on stdio")
	return srv.Run(ctx)
}
