package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pb "github.com/ppiankov/churnwatch/api/churnwatch/v1"
	"github.com/ppiankov/churnwatch/internal/client"
	"github.com/ppiankov/churnwatch/internal/engine"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

// SourceCLI tags assessments made by the score command.
const SourceCLI = "cli"

var (
	scoreAge       string
	scoreTenure    string
	scoreCharges   string
	scoreCalls     string
	scoreContract  string
	scorePayment   string
	scoreType      string
	scoreWeights   string
	scoreFormat    string
	scoreAuditLog  string
	scoreHistoryDB string
	scoreRemote    string
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreAge, "age", "", "Customer age in years (required)")
	scoreCmd.Flags().StringVar(&scoreTenure, "tenure", "", "Tenure in months (required)")
	scoreCmd.Flags().StringVar(&scoreCharges, "charges", "", "Monthly charges in dollars (required)")
	scoreCmd.Flags().StringVar(&scoreCalls, "calls", "0", "Support calls this month")
	scoreCmd.Flags().StringVar(&scoreContract, "contract", "Monthly", "Contract type (Monthly|Quarterly|Annual|Two-Year)")
	scoreCmd.Flags().StringVar(&scorePayment, "payment", "Electronic", "Payment method (Electronic|Credit Card|Bank Transfer|Manual)")
	scoreCmd.Flags().StringVar(&scoreType, "type", "Young Professional", "Customer type (Young Professional|Family User|Senior Citizen|Student|Business User)")
	scoreCmd.Flags().StringVar(&scoreWeights, "weights", "", "Path to weights YAML (default ~/.churnwatch/weights.yaml)")
	scoreCmd.Flags().StringVarP(&scoreFormat, "format", "f", "text", "Output format (text|json)")
	scoreCmd.Flags().StringVar(&scoreAuditLog, "audit-log", "", "Path to audit log JSONL file")
	scoreCmd.Flags().StringVar(&scoreHistoryDB, "history-db", "", "Path to SQLite history database")
	scoreCmd.Flags().StringVar(&scoreRemote, "remote", "", "Score on a churnwatch gRPC server at host:port instead of locally")
	scoreCmd.MarkFlagRequired("age")
	scoreCmd.MarkFlagRequired("tenure")
	scoreCmd.MarkFlagRequired("charges")
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one customer's churn risk",
	Long: "Computes the churn risk score, tier and retention strategy for one customer\n" +
		"profile and prints the report.\n\n" +
		"Exit code 0 on success, 1 if the input could not be scored.",
	RunE: runScore,
}

// scoreJSON is the --format json output of the score command.
type scoreJSON struct {
	Score           int      `json:"score"`
	Level           string   `json:"level,omitempty"`
	Probability     string   `json:"probability,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Report          string   `json:"report,omitempty"`
	AssessmentID    string   `json:"assessment_id,omitempty"`
	WeightsHash     string   `json:"weights_hash,omitempty"`
	Error           string   `json:"error,omitempty"`
}

func scoreRaw() scoring.RawProfile {
	return scoring.RawProfile{
		Age:            scoring.Field(scoreAge),
		TenureMonths:   scoring.Field(scoreTenure),
		MonthlyCharges: scoring.Field(scoreCharges),
		SupportCalls:   scoring.Field(scoreCalls),
		ContractType:   scoring.Field(scoreContract),
		PaymentMethod:  scoring.Field(scorePayment),
		CustomerType:   scoring.Field(scoreType),
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	var (
		out string
		ok  bool
		err error
	)
	if scoreRemote != "" {
		out, ok, err = scoreOnRemote(cmd.Context(), scoreRemote, scoreRaw(), scoreFormat)
	} else {
		out, ok, err = scoreLocally(cmd.Context(), scoreRaw(), scoreFormat)
	}
	if err != nil {
		return err
	}

	fmt.Println(out)
	if !ok {
		os.Exit(1)
	}
	return nil
}

func scoreLocally(ctx context.Context, raw scoring.RawProfile, format string) (string, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	eng, err := engine.New(engine.Config{
		WeightsPath:  scoreWeights,
		AuditLogPath: scoreAuditLog,
		HistoryPath:  scoreHistoryDB,
	})
	if err != nil {
		return "", false, err
	}
	defer eng.Close()

	outcome := eng.Assess(ctx, SourceCLI, raw)
	out, err := formatOutcome(outcome, format)
	return out, outcome.OK(), err
}

func formatOutcome(o engine.Outcome, format string) (string, error) {
	if format != "json" {
		return o.String(), nil
	}

	res := scoreJSON{AssessmentID: o.AssessmentID, WeightsHash: o.WeightsHash}
	if o.OK() {
		res.Score = o.Report.RiskScore
		res.Level = string(o.Report.RiskLevel)
		res.Probability = o.Report.Probability
		res.Recommendations = o.Report.Recommendations
		res.Report = o.Text
	} else {
		res.Error = o.String()
	}
	return marshalIndent(res)
}

func scoreOnRemote(ctx context.Context, addr string, raw scoring.RawProfile, format string) (string, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := client.New(addr)
	if err != nil {
		return "", false, err
	}
	defer c.Close()

	resp, err := c.Score(ctx, raw)
	if err != nil {
		return "", false, err
	}
	out, err := formatResponse(resp, format)
	return out, resp.Error == "", err
}

func formatResponse(resp *pb.ScoreResponse, format string) (string, error) {
	if format != "json" {
		return client.Text(resp), nil
	}
	return marshalIndent(scoreJSON{
		Score:           int(resp.Score),
		Level:           resp.Level,
		Probability:     resp.Probability,
		Recommendations: resp.Recommendations,
		Report:          resp.Report,
		AssessmentID:    resp.AssessmentId,
		WeightsHash:     resp.WeightsHash,
		Error:           resp.Error,
	})
}

func marshalIndent(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal output: %w", err)
	}
	return string(out), nil
}
