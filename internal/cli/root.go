package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/churnwatch/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "churnwatch",
	Short: "Deterministic customer churn risk scoring",
	Long: "Scores a customer's likelihood of leaving from seven profile attributes\n" +
		"and renders a risk report with tier-specific retention recommendations.\n" +
		"Runs as a one-shot CLI, a web form, a gRPC service, or an MCP tool.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(logLevel, logFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text|json)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
