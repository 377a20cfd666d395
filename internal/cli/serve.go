package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/churnwatch/internal/server"
)

var (
	servePort      int
	serveWeights   string
	serveAuditLog  string
	serveHistoryDB string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 50061, "gRPC listen port")
	serveCmd.Flags().StringVar(&serveWeights, "weights", "", "Path to weights YAML (default ~/.churnwatch/weights.yaml)")
	serveCmd.Flags().StringVar(&serveAuditLog, "audit-log", "", "Path to audit log JSONL file")
	serveCmd.Flags().StringVar(&serveHistoryDB, "history-db", "", "Path to SQLite history database")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start gRPC scoring server",
	Long: "Runs churnwatch as a central scoring service over gRPC.\n" +
		"Clients call churnwatch.v1.ChurnService/Score; the standard health\n" +
		"service is registered. Supports hot-reload of the weights file.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := server.New(server.Config{
		Port:         servePort,
		WeightsPath:  serveWeights,
		AuditLogPath: serveAuditLog,
		HistoryPath:  serveHistoryDB,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startReloader(ctx, srv.Engine(), serveWeights)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down scoring server...")
		cancel()
		srv.GracefulStop()
	}()

	fmt.Fprintf(os.Stderr, "churnwatch scoring server listening on :%d\n", servePort)
	if p := resolveWeightsPath(serveWeights); p != "" {
		fmt.Fprintf(os.Stderr, "Weights: %s (hot-reload enabled)\n", p)
	}
	fmt.Fprintln(os.Stderr)

	return srv.Serve()
}
