package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pb "github.com/ppiankov/churnwatch/api/churnwatch/v1"
	"github.com/ppiankov/churnwatch/internal/audit"
	"github.com/ppiankov/churnwatch/internal/history"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

func referenceRaw() scoring.RawProfile {
	return scoring.RawProfile{
		Age:            "35",
		TenureMonths:   "12",
		MonthlyCharges: "75",
		SupportCalls:   "2",
		ContractType:   "Monthly",
		PaymentMethod:  "Credit Card",
		CustomerType:   "Young Professional",
	}
}

// resetScoreFlags points the score command at files inside dir.
func resetScoreFlags(t *testing.T, dir string) {
	t.Helper()
	scoreWeights = filepath.Join(dir, "missing-weights.yaml")
	scoreAuditLog = filepath.Join(dir, "audit.jsonl")
	scoreHistoryDB = filepath.Join(dir, "history.db")
	t.Cleanup(func() {
		scoreWeights, scoreAuditLog, scoreHistoryDB = "", "", ""
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScoreLocallyText(t *testing.T) {
	dir := t.TempDir()
	resetScoreFlags(t, dir)

	out, ok, err := scoreLocally(context.Background(), referenceRaw(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected success, got %q", out)
	}
	if !strings.Contains(out, "**Risk Score**: 66/100") {
		t.Errorf("expected score 66 in report, got:\n%s", out)
	}
	if !strings.Contains(out, "65-84%") {
		t.Errorf("expected HIGH probability range in report, got:\n%s", out)
	}

	if r := audit.Verify(scoreAuditLog); !r.Valid || r.Lines != 1 {
		t.Errorf("expected one verified audit entry, got %+v", r)
	}
}

func TestScoreLocallyJSON(t *testing.T) {
	resetScoreFlags(t, t.TempDir())

	out, ok, err := scoreLocally(context.Background(), referenceRaw(), "json")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatalf("expected success, got %s", out)
	}

	var res scoreJSON
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if res.Score != 66 || res.Level != "HIGH" {
		t.Errorf("expected 66/HIGH, got %d/%s", res.Score, res.Level)
	}
	if len(res.Recommendations) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(res.Recommendations))
	}
	if res.AssessmentID == "" || res.WeightsHash == "" {
		t.Errorf("expected assessment id and weights hash, got %+v", res)
	}
}

func TestScoreLocallyMalformedInput(t *testing.T) {
	dir := t.TempDir()
	resetScoreFlags(t, dir)

	raw := referenceRaw()
	raw.Age = "thirty"
	out, ok, err := scoreLocally(context.Background(), raw, "text")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected failure for malformed age")
	}
	if !strings.HasPrefix(out, scoring.ErrorPrefix) {
		t.Errorf("expected %q prefix, got %q", scoring.ErrorPrefix, out)
	}

	rep, err := loadHistory(context.Background(), scoreHistoryDB, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Recent) != 1 || rep.Recent[0].Error == "" {
		t.Errorf("expected failed assessment in history, got %+v", rep.Recent)
	}
	if len(rep.Counts) != 0 {
		t.Errorf("expected failed assessment excluded from counts, got %+v", rep.Counts)
	}
}

func TestScoreLocallyInvalidWeights(t *testing.T) {
	dir := t.TempDir()
	resetScoreFlags(t, dir)
	scoreWeights = filepath.Join(dir, "bad.yaml")
	writeFile(t, scoreWeights, "tiers: [")

	if _, _, err := scoreLocally(context.Background(), referenceRaw(), "text"); err == nil {
		t.Fatal("expected error for invalid weights file")
	}
}

func TestFormatResponse(t *testing.T) {
	resp := &pb.ScoreResponse{Report: "report", Score: 66, Level: "HIGH", AssessmentId: "a-1"}

	text, err := formatResponse(resp, "text")
	if err != nil {
		t.Fatal(err)
	}
	if text != "report" {
		t.Errorf("expected report text, got %q", text)
	}

	failed := &pb.ScoreResponse{Error: "Error: age: invalid"}
	text, _ = formatResponse(failed, "text")
	if text != "Error: age: invalid" {
		t.Errorf("expected error text, got %q", text)
	}

	js, err := formatResponse(resp, "json")
	if err != nil {
		t.Fatal(err)
	}
	var res scoreJSON
	if err := json.Unmarshal([]byte(js), &res); err != nil {
		t.Fatal(err)
	}
	if res.Score != 66 || res.AssessmentID != "a-1" {
		t.Errorf("unexpected JSON output: %+v", res)
	}
}

func TestInitWeightsWritesDefaults(t *testing.T) {
	initWeightsPath = filepath.Join(t.TempDir(), "conf", "weights.yaml")
	initWeightsForce = false
	t.Cleanup(func() { initWeightsPath = "" })

	if err := runInitWeights(nil, nil); err != nil {
		t.Fatalf("runInitWeights failed: %v", err)
	}

	w, err := scoring.LoadWeights(initWeightsPath)
	if err != nil {
		t.Fatalf("generated weights do not load: %v", err)
	}
	if w.SupportCallPoints != scoring.DefaultWeights().SupportCallPoints {
		t.Errorf("expected default support call points, got %d", w.SupportCallPoints)
	}
}

func TestInitWeightsNoOverwriteWithoutForce(t *testing.T) {
	initWeightsPath = filepath.Join(t.TempDir(), "weights.yaml")
	t.Cleanup(func() { initWeightsPath, initWeightsForce = "", false })

	sentinel := "# sentinel content\n"
	writeFile(t, initWeightsPath, sentinel)

	initWeightsForce = false
	if err := runInitWeights(nil, nil); err == nil {
		t.Fatal("expected error when file exists")
	}
	data, _ := os.ReadFile(initWeightsPath)
	if string(data) != sentinel {
		t.Error("weights.yaml was overwritten without --force")
	}

	initWeightsForce = true
	if err := runInitWeights(nil, nil); err != nil {
		t.Fatalf("runInitWeights with force failed: %v", err)
	}
	data, _ = os.ReadFile(initWeightsPath)
	if string(data) == sentinel {
		t.Error("weights.yaml was NOT overwritten with --force")
	}
}

func TestResolveWeightsPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if got := resolveWeightsPath("/etc/w.yaml"); got != "/etc/w.yaml" {
		t.Errorf("expected explicit path kept, got %q", got)
	}
	want, _ := scoring.DefaultPath()
	if got := resolveWeightsPath(""); got != want {
		t.Errorf("expected default path %q, got %q", want, got)
	}
}

func TestDiffWeights(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.yaml")
	newPath := filepath.Join(dir, "new.yaml")
	writeFile(t, oldPath, "support_call_points: 8\n")
	writeFile(t, newPath, "support_call_points: 10\n")

	out, err := diffWeights(oldPath, newPath, "text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "8 → 10") {
		t.Errorf("expected support call change in output, got:\n%s", out)
	}

	js, err := diffWeights(oldPath, newPath, "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js, `"has_changes": true`) {
		t.Errorf("expected has_changes in JSON, got:\n%s", js)
	}
}

func TestDiffWeightsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "age_bands: [")

	if _, err := diffWeights(bad, bad, "text"); err == nil {
		t.Fatal("expected error for invalid weights")
	}
}

func TestRunScenarios(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), `name: reference
cases:
  - name: reference customer
    profile:
      age: "35"
      tenure_months: "12"
      monthly_charges: "75"
      support_calls: "2"
      contract_type: Monthly
      payment_method: CreditCard
      customer_type: YoungProfessional
    expect:
      level: HIGH
      score: 66
  - name: bad age
    profile:
      age: old
      tenure_months: "12"
      monthly_charges: "75"
      support_calls: "2"
    expect:
      error: true
`)

	results, err := runScenarios(filepath.Join(dir, "*.yaml"), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(results))
	}
	if results[0].Failed != 0 {
		t.Errorf("expected all cases to pass, got %+v", results[0].Cases)
	}
}

func TestRunScenariosNoMatch(t *testing.T) {
	_, err := runScenarios(filepath.Join(t.TempDir(), "*.yaml"), "")
	if err == nil || !strings.Contains(err.Error(), "no scenario files") {
		t.Errorf("expected no-match error, got %v", err)
	}
}

func TestSummaryFilter(t *testing.T) {
	f, err := summaryFilter("web", "2026-03-01T00:00:00Z", "")
	if err != nil {
		t.Fatal(err)
	}
	if f.Source != "web" || !f.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) || !f.To.IsZero() {
		t.Errorf("unexpected filter %+v", f)
	}

	if _, err := summaryFilter("", "yesterday", ""); err == nil {
		t.Error("expected error for invalid --since")
	}
}

func TestFormatSummaryOrdersBySeverity(t *testing.T) {
	s := audit.Summary{
		Total:    4,
		Errors:   1,
		ByLevel:  map[string]int{"LOW": 1, "CRITICAL": 1, "HIGH": 1},
		AvgScore: 52,
		First:    "2026-03-01T10:00:00.000Z",
		Last:     "2026-03-03T09:00:00.000Z",
	}
	out := formatSummary(s)

	if !strings.Contains(out, "Assessments: 4 (1 failed)") {
		t.Errorf("missing totals:\n%s", out)
	}
	crit := strings.Index(out, "CRITICAL")
	high := strings.Index(out, "HIGH")
	low := strings.Index(out, "LOW")
	if crit >= high || high >= low {
		t.Errorf("expected CRITICAL, HIGH, LOW order:\n%s", out)
	}
}

func TestFormatHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	store.Record(ctx, audit.Entry{Source: "web", Score: 66, Level: "HIGH"})
	store.Record(ctx, audit.Entry{Source: "cli", Score: 10, Level: "LOW"})
	store.Close()

	rep, err := loadHistory(ctx, path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Recent) != 1 || rep.Recent[0].Source != "cli" {
		t.Errorf("expected newest entry only, got %+v", rep.Recent)
	}

	out := formatHistory(rep)
	if !strings.Contains(out, "HIGH      1") || !strings.Contains(out, " 10 LOW") {
		t.Errorf("unexpected history output:\n%s", out)
	}
}
