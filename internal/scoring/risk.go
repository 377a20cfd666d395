package scoring

import "github.com/ppiankov/churnwatch/internal/model"

// Score limits.
const (
	MinScore = 0
	MaxScore = 100
)

// Factor names as they appear in RiskReport.Factors.
const (
	FactorAge          = "age"
	FactorTenure       = "tenure"
	FactorCharges      = "monthly_charges"
	FactorSupportCalls = "support_calls"
	FactorContract     = "contract_type"
	FactorPayment      = "payment_method"
	FactorCustomerType = "customer_type"
)

// Score computes a deterministic, explainable churn risk report.
// This is NOT a predictive model: it is cumulative scoring with fixed weights.
// A nil w scores with DefaultWeights.
func Score(p model.CustomerProfile, w *Weights) model.RiskReport {
	if w == nil {
		w = DefaultWeights()
	}
	p = p.Normalize()

	factors := []model.Factor{
		{Name: FactorAge, Points: bandPoints(w.AgeBands, float64(p.Age))},
		{Name: FactorTenure, Points: bandPoints(w.TenureBands, float64(p.TenureMonths))},
		{Name: FactorCharges, Points: bandPoints(w.ChargeBands, p.MonthlyCharges)},
		{Name: FactorSupportCalls, Points: w.SupportCallPoints * p.SupportCalls},
		{Name: FactorContract, Points: w.Contract.WeightFor(string(p.ContractType))},
		{Name: FactorPayment, Points: w.Payment.WeightFor(string(p.PaymentMethod))},
		{Name: FactorCustomerType, Points: w.CustomerType.WeightFor(string(p.CustomerType))},
	}

	raw := 0
	for _, f := range factors {
		raw += f.Points
	}
	score := clamp(raw)
	tier := w.TierFor(score)

	recs := make([]string, len(tier.Recommendations))
	copy(recs, tier.Recommendations)

	return model.RiskReport{
		Profile:         p,
		RawScore:        raw,
		RiskScore:       score,
		RiskLevel:       tier.Level,
		Probability:     tier.Probability,
		Recommendations: recs,
		Factors:         factors,
	}
}

// bandPoints returns the points of the first matching band, or 0.
func bandPoints(bands []Band, v float64) int {
	for _, b := range bands {
		if b.Matches(v) {
			return b.Points
		}
	}
	return 0
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
