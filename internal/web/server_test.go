package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/churnwatch/internal/engine"
	"github.com/ppiankov/churnwatch/internal/metrics"
)

func newTestRouter(t *testing.T) (http.Handler, *engine.Engine) {
	t.Helper()
	eng, err := engine.New(engine.Config{
		WeightsPath: filepath.Join(t.TempDir(), "missing.yaml"),
		Metrics:     metrics.New(),
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	t.Cleanup(func() { eng.Close() })
	return NewRouter(NewHandler(eng)), eng
}

func do(t *testing.T, h http.Handler, req *http.Request) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	resp := rec.Result()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func referenceForm() url.Values {
	return url.Values{
		"age":             {"35"},
		"tenure_months":   {"12"},
		"monthly_charges": {"75"},
		"support_calls":   {"2"},
		"contract_type":   {"Monthly"},
		"payment_method":  {"CreditCard"},
		"customer_type":   {"YoungProfessional"},
	}
}

func TestIndexRendersForm(t *testing.T) {
	h, _ := newTestRouter(t)

	resp, body := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{
		`name="age" min="18" max="80"`,
		`name="tenure_months" min="1" max="60"`,
		`name="monthly_charges" min="20" max="200"`,
		`name="support_calls" min="0" max="10"`,
		`value="TwoYear"`,
		`> Two-Year`,
		`value="CreditCard" checked`,
		`<option value="YoungProfessional" selected>Young Professional</option>`,
		"Analyze Churn Risk",
		`<textarea id="report" readonly>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected form to contain %q", want)
		}
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header")
	}
}

func TestSubmitRendersReport(t *testing.T) {
	h, _ := newTestRouter(t)

	form := referenceForm()
	form.Set("contract_type", "Quarterly")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, body := do(t, h, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	// Quarterly is 10 points below Monthly
	if !strings.Contains(body, "**Risk Score**: 56/100") {
		t.Errorf("expected report with score 56 in textarea, got:\n%s", body)
	}
	if !strings.Contains(body, `value="Quarterly" checked`) {
		t.Error("expected submitted contract to stay selected")
	}
}

func TestSubmitMalformedShowsError(t *testing.T) {
	h, _ := newTestRouter(t)

	form := referenceForm()
	form.Set("age", "")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, body := do(t, h, req)
	if !strings.Contains(body, "Error: age: value is required") {
		t.Errorf("expected error text in textarea, got:\n%s", body)
	}
}

func TestAPIScore(t *testing.T) {
	h, _ := newTestRouter(t)

	payload := `{"age": 35, "tenure_months": 12, "monthly_charges": 75, "support_calls": 2,
		"contract_type": "Monthly", "payment_method": "Credit Card", "customer_type": "Young Professional"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, body := do(t, h, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var got scoreResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Score != 66 || got.Level != "HIGH" || got.Probability != "65-84%" {
		t.Errorf("expected 66/HIGH/65-84%%, got %d/%s/%s", got.Score, got.Level, got.Probability)
	}
	if len(got.Factors) != 7 || got.AssessmentID == "" {
		t.Errorf("expected factors and assessment id, got %+v", got)
	}
	if !strings.Contains(got.Report, "⚠️ HIGH") {
		t.Errorf("unexpected report: %q", got.Report)
	}
}

func TestAPIScoreComputationError(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(`{"age": "x"}`))
	resp, body := do(t, h, req)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	var got apiError
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(got.Error, "Error: age:") {
		t.Errorf("expected age error, got %q", got.Error)
	}
}

func TestAPIScoreBadJSON(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(`{not json`))
	resp, _ := do(t, h, req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWeightsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)

	resp, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/weights", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got weightsResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Tiers) != 4 || got.Hash == "" {
		t.Errorf("unexpected weights response: %+v", got)
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	h, _ := newTestRouter(t)

	resp, body := do(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Errorf("unexpected healthz: %d %s", resp.StatusCode, body)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(`{"age":"35","tenure_months":"12","monthly_charges":"75","support_calls":"2","contract_type":"Monthly","payment_method":"CreditCard","customer_type":"YoungProfessional"}`))
	do(t, h, req)

	_, body = do(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(body, `churnwatch_assessments_total{level="HIGH",result="ok",source="web"} 1`) {
		t.Errorf("expected web assessment counted in metrics")
	}
}

func TestMetricsNotMountedWithoutEngineMetrics(t *testing.T) {
	eng, err := engine.New(engine.Config{WeightsPath: filepath.Join(t.TempDir(), "missing.yaml")})
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	h := NewRouter(NewHandler(eng))

	resp, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 without engine metrics, got %d", resp.StatusCode)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	resp, _ := do(t, h, req)
	if got := resp.Header.Get("X-Request-Id"); got != "req-123" {
		t.Errorf("expected request id echoed, got %q", got)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	resp, body := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "internal server error") {
		t.Errorf("unexpected body: %s", body)
	}
}
