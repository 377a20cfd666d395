package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/churnwatch/internal/audit"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.WeightsPath == "" {
		cfg.WeightsPath = filepath.Join(t.TempDir(), "missing.yaml")
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create MCP server: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func referenceInput() ScoreInput {
	return ScoreInput{
		Age:            35,
		TenureMonths:   12,
		MonthlyCharges: 75,
		SupportCalls:   2,
		ContractType:   "Monthly",
		PaymentMethod:  "Credit Card",
		CustomerType:   "Young Professional",
	}
}

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) != 1 {
		t.Fatalf("expected one content item, got %+v", result)
	}
	tc, ok := result.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return tc.Text
}

func TestScoreReference(t *testing.T) {
	s := newTestServer(t, Config{})

	result, out, err := s.handleScore(context.Background(), &mcpsdk.CallToolRequest{}, referenceInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}
	if out.Score != 66 || out.Level != "HIGH" || out.Probability != "65-84%" {
		t.Errorf("expected 66/HIGH/65-84%%, got %d/%s/%s", out.Score, out.Level, out.Probability)
	}
	if len(out.Factors) != 7 {
		t.Errorf("expected 7 factors, got %d", len(out.Factors))
	}

	text := resultText(t, result)
	if !strings.HasPrefix(text, "\n**CUSTOMER CHURN RISK ASSESSMENT**") {
		t.Errorf("unexpected report text: %q", text)
	}
	if !strings.Contains(text, "• Payment: Credit Card") {
		t.Errorf("expected payment label in report, got %q", text)
	}
}

func TestScoreUnknownEnumsUseDefaults(t *testing.T) {
	s := newTestServer(t, Config{})

	in := referenceInput()
	in.ContractType = "Weekly"
	_, out, err := s.handleScore(context.Background(), &mcpsdk.CallToolRequest{}, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Monthly 25 replaced by the default 15
	if out.Score != 56 {
		t.Errorf("expected 56, got %d", out.Score)
	}
}

func TestScoreRecordsAudit(t *testing.T) {
	auditPath := filepath.Join(t.TempDir(), "audit.jsonl")
	s := newTestServer(t, Config{AuditLogPath: auditPath})

	_, out, err := s.handleScore(context.Background(), &mcpsdk.CallToolRequest{}, referenceInput())
	if err != nil {
		t.Fatal(err)
	}

	entries, err := audit.Read(auditPath, audit.Filter{Source: SourceMCP})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].AssessmentID != out.AssessmentID {
		t.Errorf("expected one mcp audit entry for %s, got %+v", out.AssessmentID, entries)
	}
}

func TestScoreComputationErrorIsToolError(t *testing.T) {
	s := newTestServer(t, Config{})
	w, hash := s.Engine().Weights()
	broken := *w
	broken.Tiers = nil
	s.Engine().SetWeights(&broken, hash)

	result, out, err := s.handleScore(context.Background(), &mcpsdk.CallToolRequest{}, referenceInput())
	if err != nil {
		t.Fatalf("expected tool error, not protocol error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError result")
	}
	if !strings.HasPrefix(out.Error, "Error: ") || !strings.HasPrefix(resultText(t, result), "Error: ") {
		t.Errorf("expected Error: prefix, got %q", out.Error)
	}
}

func TestTiersListsDefaults(t *testing.T) {
	s := newTestServer(t, Config{})

	_, out, err := s.handleTiers(context.Background(), &mcpsdk.CallToolRequest{}, TiersInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Tiers) != 4 {
		t.Fatalf("expected 4 tiers, got %d", len(out.Tiers))
	}
	if out.Tiers[0].Level != "CRITICAL" || out.Tiers[0].Min != 70 {
		t.Errorf("unexpected first tier: %+v", out.Tiers[0])
	}
	if out.WeightsHash == "" {
		t.Error("expected weights hash")
	}
}

func TestNewRejectsInvalidWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := writeFile(path, "age_bands:\n  - {op: eq, bound: 1, points: 1}\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{WeightsPath: path}); err == nil {
		t.Error("expected error for invalid weights")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
