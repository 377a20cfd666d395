package scoring

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/churnwatch/internal/model"
)

// ErrorPrefix starts every user-visible computation error.
const ErrorPrefix = "Error: "

// Error kinds. They describe a fault without echoing the input value.
const (
	KindRequired      = "value is required"
	KindInvalidNumber = "invalid number"
	KindNotWhole      = "not a whole number"
	KindOutOfRange    = "out of range"
	KindInternal      = "internal error"
)

// ComputationError is any fault raised while turning shell input into a report.
type ComputationError struct {
	Field string
	Kind  string
	Err   error
}

func (e *ComputationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// Redacted returns "<field>: <kind>", safe to persist because it carries
// no input value.
func (e *ComputationError) Redacted() string {
	kind := e.Kind
	if kind == "" {
		kind = KindInternal
	}
	if e.Field == "" {
		return kind
	}
	return e.Field + ": " + kind
}

// RedactedError returns the persistable form of err: Redacted for a
// *ComputationError, KindInternal for anything else.
func RedactedError(err error) string {
	var ce *ComputationError
	if errors.As(err, &ce) {
		return ce.Redacted()
	}
	return KindInternal
}

// Field is a raw form value. It decodes from a JSON string or a bare JSON
// literal, so both {"age":"35"} and {"age":35} are accepted.
type Field string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		*f = Field(unq)
		return nil
	}
	*f = Field(s)
	return nil
}

// RawProfile is the unvalidated input a presentation shell collects.
type RawProfile struct {
	Age            Field `json:"age" yaml:"age"`
	TenureMonths   Field `json:"tenure_months" yaml:"tenure_months"`
	MonthlyCharges Field `json:"monthly_charges" yaml:"monthly_charges"`
	SupportCalls   Field `json:"support_calls" yaml:"support_calls"`
	ContractType   Field `json:"contract_type" yaml:"contract_type"`
	PaymentMethod  Field `json:"payment_method" yaml:"payment_method"`
	CustomerType   Field `json:"customer_type" yaml:"customer_type"`
}

// RawFromProfile converts a typed profile back to raw form values.
func RawFromProfile(p model.CustomerProfile) RawProfile {
	return RawProfile{
		Age:            Field(strconv.Itoa(p.Age)),
		TenureMonths:   Field(strconv.Itoa(p.TenureMonths)),
		MonthlyCharges: Field(FormatCharges(p.MonthlyCharges)),
		SupportCalls:   Field(strconv.Itoa(p.SupportCalls)),
		ContractType:   Field(p.ContractType),
		PaymentMethod:  Field(p.PaymentMethod),
		CustomerType:   Field(p.CustomerType),
	}
}

// Parse converts raw values into a CustomerProfile.
// Numbers must parse; ranges are trusted to the shell. Enums never fail.
func (r RawProfile) Parse() (model.CustomerProfile, error) {
	var p model.CustomerProfile
	var err error

	if p.Age, err = parseWhole("age", r.Age); err != nil {
		return p, err
	}
	if p.TenureMonths, err = parseWhole("tenure_months", r.TenureMonths); err != nil {
		return p, err
	}
	if p.MonthlyCharges, err = parseReal("monthly_charges", r.MonthlyCharges); err != nil {
		return p, err
	}
	if p.SupportCalls, err = parseWhole("support_calls", r.SupportCalls); err != nil {
		return p, err
	}

	p.ContractType = model.ParseContractType(string(r.ContractType))
	p.PaymentMethod = model.ParsePaymentMethod(string(r.PaymentMethod))
	p.CustomerType = model.ParseCustomerType(string(r.CustomerType))
	return p, nil
}

// parseWhole accepts "35" and "35.0" but rejects "35.5".
func parseWhole(name string, f Field) (int, error) {
	v, err := parseReal(name, f)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, &ComputationError{Field: name, Kind: KindNotWhole, Err: fmt.Errorf("%s is not a whole number", FormatCharges(v))}
	}
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, &ComputationError{Field: name, Kind: KindOutOfRange, Err: fmt.Errorf("%s is out of range", FormatCharges(v))}
	}
	return int(v), nil
}

func parseReal(name string, f Field) (float64, error) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, &ComputationError{Field: name, Kind: KindRequired, Err: errors.New("value is required")}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &ComputationError{Field: name, Kind: KindInvalidNumber, Err: fmt.Errorf("cannot parse %q: %w", s, err)}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ComputationError{Field: name, Kind: KindInvalidNumber, Err: fmt.Errorf("cannot parse %q: not a finite number", s)}
	}
	return v, nil
}

// Result is either a rendered report or a computation error, never both.
type Result struct {
	Report *model.RiskReport
	Text   string
	Err    error
}

// OK reports whether the result carries a report.
func (r Result) OK() bool { return r.Err == nil && r.Report != nil }

// String returns the rendered report, or "Error: <message>".
func (r Result) String() string {
	if r.Err != nil {
		return ErrorPrefix + r.Err.Error()
	}
	return r.Text
}

// Assess parses raw shell input, scores it and renders the report.
// It never panics: every fault is returned as a *ComputationError.
func Assess(raw RawProfile, w *Weights) (res Result) {
	defer recoverInto(&res)

	p, err := raw.Parse()
	if err != nil {
		return Result{Err: err}
	}
	return assess(p, w)
}

// AssessProfile scores and renders an already typed profile.
func AssessProfile(p model.CustomerProfile, w *Weights) (res Result) {
	defer recoverInto(&res)
	return assess(p, w)
}

func assess(p model.CustomerProfile, w *Weights) Result {
	report := Score(p, w)
	return Result{Report: &report, Text: Render(report)}
}

func recoverInto(res *Result) {
	if rec := recover(); rec != nil {
		*res = Result{Err: &ComputationError{Kind: KindInternal, Err: fmt.Errorf("%v", rec)}}
	}
}
