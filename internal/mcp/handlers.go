package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/churnwatch/internal/model"
)

// --- Input/Output types ---

// ScoreInput defines parameters for the churn_score tool.
type ScoreInput struct {
	Age            int     `json:"age" jsonschema:"customer age in years, typically 18-80"`
	TenureMonths   int     `json:"tenure_months" jsonschema:"months as a customer, typically 1-60"`
	MonthlyCharges float64 `json:"monthly_charges" jsonschema:"monthly bill in dollars, typically 20-200"`
	SupportCalls   int     `json:"support_calls" jsonschema:"support calls this month, typically 0-10"`
	ContractType   string  `json:"contract_type" jsonschema:"Monthly, Quarterly, Annual or TwoYear"`
	PaymentMethod  string  `json:"payment_method" jsonschema:"Electronic, CreditCard, BankTransfer or Manual"`
	CustomerType   string  `json:"customer_type" jsonschema:"YoungProfessional, FamilyUser, SeniorCitizen, Student or BusinessUser"`
}

// ScoreOutput contains the structured assessment.
type ScoreOutput struct {
	Score           int            `json:"score"`
	Level           string         `json:"level,omitempty"`
	Probability     string         `json:"probability,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Factors         []model.Factor `json:"factors,omitempty"`
	AssessmentID    string         `json:"assessment_id"`
	Error           string         `json:"error,omitempty"`
}

// TiersInput is empty; no parameters needed.
type TiersInput struct{}

// TiersOutput lists the tiers in effect.
type TiersOutput struct {
	WeightsHash string     `json:"weights_hash"`
	Tiers       []TierItem `json:"tiers"`
}

// TierItem describes one risk tier.
type TierItem struct {
	Level           string   `json:"level"`
	Min             int      `json:"min"`
	Probability     string   `json:"probability"`
	Recommendations []string `json:"recommendations"`
}

// --- Handlers ---

func (s *Server) handleScore(ctx context.Context, req *mcpsdk.CallToolRequest, input ScoreInput) (*mcpsdk.CallToolResult, ScoreOutput, error) {
	p := model.CustomerProfile{
		Age:            input.Age,
		TenureMonths:   input.TenureMonths,
		MonthlyCharges: input.MonthlyCharges,
		SupportCalls:   input.SupportCalls,
		ContractType:   model.ParseContractType(input.ContractType),
		PaymentMethod:  model.ParsePaymentMethod(input.PaymentMethod),
		CustomerType:   model.ParseCustomerType(input.CustomerType),
	}

	out := s.engine.AssessProfile(ctx, SourceMCP, p)
	result := &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: out.String()}},
	}

	if !out.OK() {
		result.IsError = true
		return result, ScoreOutput{AssessmentID: out.AssessmentID, Error: out.String()}, nil
	}

	r := out.Report
	return result, ScoreOutput{
		Score:           r.RiskScore,
		Level:           string(r.RiskLevel),
		Probability:     r.Probability,
		Recommendations: r.Recommendations,
		Factors:         r.Factors,
		AssessmentID:    out.AssessmentID,
	}, nil
}

func (s *Server) handleTiers(ctx context.Context, req *mcpsdk.CallToolRequest, input TiersInput) (*mcpsdk.CallToolResult, TiersOutput, error) {
	w, hash := s.engine.Weights()

	out := TiersOutput{WeightsHash: hash}
	for _, t := range w.Tiers {
		out.Tiers = append(out.Tiers, TierItem{
			Level:           string(t.Level),
			Min:             t.Min,
			Probability:     t.Probability,
			Recommendations: t.Recommendations,
		})
	}
	return nil, out, nil
}
