package scoring

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
)

const referenceReport = `
**CUSTOMER CHURN RISK ASSESSMENT**

🎯 **Risk Level**: ⚠️ HIGH
📊 **Risk Score**: 66/100
📈 **Churn Probability**: 65-84%

**CUSTOMER PROFILE:**
• Age: 35 years
• Tenure: 12 months` + "  \n" + `• Monthly Charges: $75
• Support Calls: 2 this month
• Contract: Monthly
• Payment: Credit Card
• Profile: Young Professional

**💡 RETENTION STRATEGY:**
• Loyalty program offer
• Feature education
• Satisfaction survey

---
*AI-powered business intelligence for customer retention*
`

func referenceRaw() RawProfile {
	return RawProfile{
		Age:            "35",
		TenureMonths:   "12",
		MonthlyCharges: "75",
		SupportCalls:   "2",
		ContractType:   "Monthly",
		PaymentMethod:  "Credit Card",
		CustomerType:   "Young Professional",
	}
}

func TestAssessRendersReference(t *testing.T) {
	res := Assess(referenceRaw(), nil)
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.String() != referenceReport {
		t.Errorf("report mismatch\n got: %q\nwant: %q", res.String(), referenceReport)
	}
}

func TestRenderTenureLineHardBreak(t *testing.T) {
	res := Assess(referenceRaw(), nil)
	if !strings.Contains(res.Text, "• Tenure: 12 months  \n• Monthly Charges") {
		t.Errorf("expected tenure line to end with two spaces, got %q", res.Text)
	}
}

func TestAssessIsPure(t *testing.T) {
	first := Assess(referenceRaw(), nil).String()
	for i := 0; i < 10; i++ {
		if got := Assess(referenceRaw(), nil).String(); got != first {
			t.Fatalf("call %d produced different output", i)
		}
	}
}

func TestAssessConcurrent(t *testing.T) {
	w := DefaultWeights()
	want := Assess(referenceRaw(), w).String()

	var wg sync.WaitGroup
	errs := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Assess(referenceRaw(), w).String(); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent call diverged: %q", got)
	}
}

func TestAssessMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawProfile)
		field  string
		kind   string
	}{
		{"non-numeric age", func(r *RawProfile) { r.Age = "abc" }, "age", KindInvalidNumber},
		{"empty tenure", func(r *RawProfile) { r.TenureMonths = "" }, "tenure_months", KindRequired},
		{"fractional calls", func(r *RawProfile) { r.SupportCalls = "2.5" }, "support_calls", KindNotWhole},
		{"huge age", func(r *RawProfile) { r.Age = "1e300" }, "age", KindOutOfRange},
		{"charges NaN", func(r *RawProfile) { r.MonthlyCharges = "NaN" }, "monthly_charges", KindInvalidNumber},
		{"charges text", func(r *RawProfile) { r.MonthlyCharges = "seventy" }, "monthly_charges", KindInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := referenceRaw()
			tt.mutate(&raw)

			res := Assess(raw, nil)
			if res.OK() {
				t.Fatal("expected error result")
			}
			if res.Report != nil {
				t.Error("expected no partial report")
			}
			out := res.String()
			if !strings.HasPrefix(out, ErrorPrefix) {
				t.Errorf("expected %q prefix, got %q", ErrorPrefix, out)
			}
			var ce *ComputationError
			if !errors.As(res.Err, &ce) {
				t.Fatalf("expected *ComputationError, got %T", res.Err)
			}
			if ce.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ce.Field)
			}
			if ce.Kind != tt.kind {
				t.Errorf("expected kind %q, got %q", tt.kind, ce.Kind)
			}
			if got, want := RedactedError(res.Err), tt.field+": "+tt.kind; got != want {
				t.Errorf("expected redacted %q, got %q", want, got)
			}
		})
	}
}

func TestAssessWholeNumberFloatsAccepted(t *testing.T) {
	raw := referenceRaw()
	raw.Age = "35.0"
	raw.SupportCalls = " 2 "

	res := Assess(raw, nil)
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Report.RiskScore != 66 {
		t.Errorf("expected 66, got %d", res.Report.RiskScore)
	}
}

func TestAssessRecoversFromPanic(t *testing.T) {
	// No tiers: TierFor indexes past the end.
	res := Assess(referenceRaw(), &Weights{})
	if res.OK() {
		t.Fatal("expected error result")
	}
	if !strings.HasPrefix(res.String(), "Error: ") {
		t.Errorf("expected Error: prefix, got %q", res.String())
	}

	if got := RedactedError(res.Err); got != KindInternal {
		t.Errorf("expected redacted %q, got %q", KindInternal, got)
	}

	res = AssessProfile(baseline(), &Weights{})
	if res.OK() || !strings.HasPrefix(res.String(), "Error: ") {
		t.Errorf("expected recovered error from AssessProfile, got %q", res.String())
	}
}

func TestRawFieldDecodesStringsAndNumbers(t *testing.T) {
	var raw RawProfile
	data := `{"age": 35, "tenure_months": "12", "monthly_charges": 75.5, "support_calls": null, "contract_type": "Two-Year"}`
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw.Age != "35" || raw.TenureMonths != "12" || raw.MonthlyCharges != "75.5" {
		t.Errorf("unexpected numeric fields: %+v", raw)
	}
	if raw.SupportCalls != "" {
		t.Errorf("expected null to decode as empty, got %q", raw.SupportCalls)
	}
	if raw.ContractType != "Two-Year" {
		t.Errorf("expected Two-Year, got %q", raw.ContractType)
	}
}

func TestRawFromProfileRoundTrip(t *testing.T) {
	p := baseline()
	p.MonthlyCharges = 99.95

	got, err := RawFromProfile(p).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != p {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestFormatCharges(t *testing.T) {
	tests := map[float64]string{
		75:     "75",
		75.5:   "75.5",
		199.99: "199.99",
		20:     "20",
	}
	for in, want := range tests {
		if got := FormatCharges(in); got != want {
			t.Errorf("FormatCharges(%v) = %q, want %q", in, got, want)
		}
	}
}
