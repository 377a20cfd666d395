package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/churnwatch/internal/engine"
	"github.com/ppiankov/churnwatch/internal/logging"
	"github.com/ppiankov/churnwatch/internal/metrics"
	"github.com/ppiankov/churnwatch/internal/web"
)

var (
	webAddr      string
	webWeights   string
	webAuditLog  string
	webHistoryDB string
)

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().StringVar(&webAddr, "addr", ":7860", "HTTP listen address")
	webCmd.Flags().StringVar(&webWeights, "weights", "", "Path to weights YAML (default ~/.churnwatch/weights.yaml)")
	webCmd.Flags().StringVar(&webAuditLog, "audit-log", "", "Path to audit log JSONL file")
	webCmd.Flags().StringVar(&webHistoryDB, "history-db", "", "Path to SQLite history database")
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the churn assessment form and JSON API",
	Long: "Runs the browser form (sliders, choices and a report area) plus\n" +
		"POST /api/v1/score, /healthz and Prometheus /metrics.\n" +
		"Supports hot-reload of the weights file.",
	RunE: runWeb,
}

func runWeb(cmd *cobra.Command, args []string) error {
	eng, err := engine.New(engine.Config{
		WeightsPath:  webWeights,
		AuditLogPath: webAuditLog,
		HistoryPath:  webHistoryDB,
		Metrics:      metrics.New(),
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startReloader(ctx, eng, webWeights)

	fmt.Fprintf(os.Stderr, "churnwatch web form on http://localhost%s\n", webAddr)
	return web.Serve(ctx, webAddr, web.NewRouter(web.NewHandler(eng)))
}

// startReloader watches the weights file and swaps new weights into eng.
// A watcher failure only disables hot-reload.
func startReloader(ctx context.Context, eng *engine.Engine, weightsPath string) {
	logger := logging.Component("cli")

	reloader, err := engine.NewReloader(eng, []string{resolveWeightsPath(weightsPath)})
	if err != nil {
		logger.Warn("hot-reload disabled", "error", err)
		return
	}
	if len(reloader.Paths()) == 0 {
		logger.Info("no weights file to watch, using built-in weights")
	}
	go reloader.Run(ctx)
}
