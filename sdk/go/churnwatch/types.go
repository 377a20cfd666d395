package churnwatch

import (
	"github.com/ppiankov/churnwatch/internal/engine"
	"github.com/ppiankov/churnwatch/internal/model"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

// Level is a churn risk tier.
type Level string

const (
	Low      Level = Level(model.LevelLow)
	Medium   Level = Level(model.LevelMedium)
	High     Level = Level(model.LevelHigh)
	Critical Level = Level(model.LevelCritical)
)

// Valid reports whether l is one of the four risk tiers.
func (l Level) Valid() bool {
	return scoring.LevelRank(model.RiskLevel(l)) >= 0
}

// AtLeast reports whether l is as severe as min or more.
// It is false when either level is not a known tier.
func (l Level) AtLeast(min Level) bool {
	if !l.Valid() || !min.Valid() {
		return false
	}
	return scoring.LevelRank(model.RiskLevel(l)) >= scoring.LevelRank(model.RiskLevel(min))
}

// Customer is a typed customer profile. Enum fields accept canonical names
// ("CreditCard") or labels ("Credit Card"); unknown values score with the
// configured default weight.
type Customer struct {
	Age            int
	TenureMonths   int
	MonthlyCharges float64
	SupportCalls   int
	Contract       string
	Payment        string
	Type           string
}

// Fields is an untyped profile as a form submits it. Numbers that do not
// parse make Assess return a *ScoreError.
type Fields struct {
	Age            string
	TenureMonths   string
	MonthlyCharges string
	SupportCalls   string
	Contract       string
	Payment        string
	Type           string
}

// Factor is one additive contribution to the raw score.
type Factor struct {
	Name   string
	Points int
}

// Assessment is a scored customer.
type Assessment struct {
	Score           int
	Level           Level
	Probability     string
	Recommendations []string
	Factors         []Factor
	Report          string
	AssessmentID    string
	WeightsHash     string
}

// ScoreError is returned when a profile cannot be scored.
type ScoreError struct {
	AssessmentID string
	Message      string
}

func (e *ScoreError) Error() string {
	return scoring.ErrorPrefix + e.Message
}

func (c Customer) toProfile() model.CustomerProfile {
	return model.CustomerProfile{
		Age:            c.Age,
		TenureMonths:   c.TenureMonths,
		MonthlyCharges: c.MonthlyCharges,
		SupportCalls:   c.SupportCalls,
		ContractType:   model.ParseContractType(c.Contract),
		PaymentMethod:  model.ParsePaymentMethod(c.Payment),
		CustomerType:   model.ParseCustomerType(c.Type),
	}
}

func (f Fields) toRaw() scoring.RawProfile {
	return scoring.RawProfile{
		Age:            scoring.Field(f.Age),
		TenureMonths:   scoring.Field(f.TenureMonths),
		MonthlyCharges: scoring.Field(f.MonthlyCharges),
		SupportCalls:   scoring.Field(f.SupportCalls),
		ContractType:   scoring.Field(f.Contract),
		PaymentMethod:  scoring.Field(f.Payment),
		CustomerType:   scoring.Field(f.Type),
	}
}

// toAssessment maps an engine outcome to an SDK result.
func toAssessment(o engine.Outcome) (*Assessment, error) {
	if !o.OK() {
		msg := "unknown error"
		if o.Err != nil {
			msg = o.Err.Error()
		}
		return nil, &ScoreError{AssessmentID: o.AssessmentID, Message: msg}
	}

	a := &Assessment{
		Score:           o.Report.RiskScore,
		Level:           Level(o.Report.RiskLevel),
		Probability:     o.Report.Probability,
		Recommendations: o.Report.Recommendations,
		Report:          o.Text,
		AssessmentID:    o.AssessmentID,
		WeightsHash:     o.WeightsHash,
	}
	for _, f := range o.Report.Factors {
		a.Factors = append(a.Factors, Factor{Name: f.Name, Points: f.Points})
	}
	return a, nil
}
