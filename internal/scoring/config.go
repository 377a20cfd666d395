package scoring

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/churnwatch/internal/model"
)

// Band operators.
const (
	OpLess    = "lt"
	OpGreater = "gt"
)

// Band adds Points when a value is below (lt) or above (gt) Bound.
// Bands of one factor are evaluated in order and the first match wins.
type Band struct {
	Op     string  `yaml:"op"`
	Bound  float64 `yaml:"bound"`
	Points int     `yaml:"points"`
}

// Matches reports whether v falls into the band. Unknown ops never match.
func (b Band) Matches(v float64) bool {
	switch b.Op {
	case OpLess:
		return v < b.Bound
	case OpGreater:
		return v > b.Bound
	default:
		return false
	}
}

// WeightTable maps enum values to points, with a fallback for unknown values.
type WeightTable struct {
	Default int            `yaml:"default"`
	Values  map[string]int `yaml:"values"`
}

// WeightFor returns the weight for key, or Default when key is not listed.
func (wt WeightTable) WeightFor(key string) int {
	if v, ok := wt.Values[key]; ok {
		return v
	}
	return wt.Default
}

// Tier is a risk level with its minimum score, probability range and playbook.
type Tier struct {
	Level           model.RiskLevel `yaml:"level"`
	Min             int             `yaml:"min"`
	Probability     string          `yaml:"probability"`
	Recommendations []string        `yaml:"recommendations"`
}

// Weights holds every scoring parameter.
type Weights struct {
	AgeBands          []Band      `yaml:"age_bands"`
	TenureBands       []Band      `yaml:"tenure_bands"`
	ChargeBands       []Band      `yaml:"charge_bands"`
	SupportCallPoints int         `yaml:"support_call_points"`
	Contract          WeightTable `yaml:"contract_weights"`
	Payment           WeightTable `yaml:"payment_weights"`
	CustomerType      WeightTable `yaml:"customer_type_weights"`
	// Tiers are ordered from the highest minimum to the lowest.
	Tiers []Tier `yaml:"tiers"`
}

// DefaultWeights returns the built-in churn weights.
func DefaultWeights() *Weights {
	return &Weights{
		AgeBands: []Band{
			{Op: OpLess, Bound: 25, Points: 25},
			{Op: OpLess, Bound: 35, Points: 15},
			{Op: OpGreater, Bound: 60, Points: 10},
		},
		TenureBands: []Band{
			{Op: OpLess, Bound: 6, Points: 30},
			{Op: OpLess, Bound: 12, Points: 20},
			{Op: OpLess, Bound: 24, Points: 10},
		},
		ChargeBands: []Band{
			{Op: OpGreater, Bound: 100, Points: 20},
			{Op: OpGreater, Bound: 70, Points: 15},
		},
		SupportCallPoints: 8,
		Contract: WeightTable{
			Default: 15,
			Values: map[string]int{
				string(model.ContractMonthly):   25,
				string(model.ContractQuarterly): 15,
				string(model.ContractAnnual):    5,
				string(model.ContractTwoYear):   0,
			},
		},
		Payment: WeightTable{
			Default: 10,
			Values: map[string]int{
				string(model.PaymentElectronic):   0,
				string(model.PaymentCreditCard):   5,
				string(model.PaymentBankTransfer): 10,
				string(model.PaymentManual):       20,
			},
		},
		CustomerType: WeightTable{
			Default: 0,
			Values: map[string]int{
				string(model.CustomerYoungProfessional): -5,
				string(model.CustomerFamilyUser):        -10,
				string(model.CustomerSeniorCitizen):     5,
				string(model.CustomerStudent):           15,
				string(model.CustomerBusinessUser):      -15,
			},
		},
		Tiers: []Tier{
			{
				Level:       model.LevelCritical,
				Min:         70,
				Probability: "85-100%",
				Recommendations: []string{
					"Personal call from manager",
					"Special discount offer",
					"Service review meeting",
				},
			},
			{
				Level:       model.LevelHigh,
				Min:         50,
				Probability: "65-84%",
				Recommendations: []string{
					"Loyalty program offer",
					"Feature education",
					"Satisfaction survey",
				},
			},
			{
				Level:       model.LevelMedium,
				Min:         30,
				Probability: "35-64%",
				Recommendations: []string{
					"Regular check-in calls",
					"Newsletter",
					"Usage tips",
				},
			},
			{
				Level:       model.LevelLow,
				Min:         0,
				Probability: "0-34%",
				Recommendations: []string{
					"Continue excellent service",
					"Upsell opportunities",
					"Referral program",
				},
			},
		},
	}
}

// Validate checks that the weights can be scored with.
func (w *Weights) Validate() error {
	for name, bands := range map[string][]Band{
		"age_bands":    w.AgeBands,
		"tenure_bands": w.TenureBands,
		"charge_bands": w.ChargeBands,
	} {
		for i, b := range bands {
			if b.Op != OpLess && b.Op != OpGreater {
				return fmt.Errorf("%s[%d]: unknown op %q (want lt or gt)", name, i, b.Op)
			}
		}
	}

	if len(w.Tiers) == 0 {
		return errors.New("tiers: at least one tier is required")
	}
	for i, t := range w.Tiers {
		if t.Level == "" {
			return fmt.Errorf("tiers[%d]: level is required", i)
		}
		if i > 0 && t.Min >= w.Tiers[i-1].Min {
			return fmt.Errorf("tiers[%d]: min %d must be below previous tier min %d", i, t.Min, w.Tiers[i-1].Min)
		}
	}
	return nil
}

// DefaultPath returns ~/.churnwatch/weights.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".churnwatch", "weights.yaml"), nil
}

// LoadWeights loads weights from a YAML file.
// Empty path falls back to ~/.churnwatch/weights.yaml.
// Missing file returns defaults. Invalid YAML returns an error.
func LoadWeights(path string) (*Weights, error) {
	w, _, err := LoadWeightsWithHash(path)
	return w, err
}

// LoadWeightsWithHash loads weights and returns the SHA-256 of the raw file.
// When no file exists (defaults used), the hash is the SHA-256 of empty input.
func LoadWeightsWithHash(path string) (*Weights, string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return DefaultWeights(), HashBytes(nil), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultWeights(), HashBytes(nil), nil
		}
		return nil, "", fmt.Errorf("failed to read weights: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields
	w := DefaultWeights()
	if err := yaml.Unmarshal(data, w); err != nil {
		return nil, "", fmt.Errorf("failed to parse weights: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid weights %s: %w", path, err)
	}

	return w, HashBytes(data), nil
}

// HashBytes returns "sha256:<hex>" of data.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(h[:])
}

// DefaultWeightsYAML returns a commented YAML string for init-weights.
func DefaultWeightsYAML() string {
	return `# churnwatch weights configuration
# Generated by: churnwatch init-weights
#
# Score = age + tenure + charges + support calls + contract + payment + customer type,
# clamped to [0, 100]. Omitted sections keep their built-in values.

# Bands are checked top to bottom; the first matching band wins.
# op: lt (value < bound) or gt (value > bound)
age_bands:
  - {op: lt, bound: 25, points: 25}
  - {op: lt, bound: 35, points: 15}
  - {op: gt, bound: 60, points: 10}

tenure_bands:
  - {op: lt, bound: 6, points: 30}
  - {op: lt, bound: 12, points: 20}
  - {op: lt, bound: 24, points: 10}

charge_bands:
  - {op: gt, bound: 100, points: 20}
  - {op: gt, bound: 70, points: 15}

# Points per support call this month (no cap before the final clamp).
support_call_points: 8

# Lookup tables. Unlisted values score with default.
contract_weights:
  default: 15
  values: {Monthly: 25, Quarterly: 15, Annual: 5, TwoYear: 0}

payment_weights:
  default: 10
  values: {Electronic: 0, CreditCard: 5, BankTransfer: 10, Manual: 20}

customer_type_weights:
  default: 0
  values: {YoungProfessional: -5, FamilyUser: -10, SeniorCitizen: 5, Student: 15, BusinessUser: -15}

# Tiers, highest min first. A score at or above min selects the tier.
tiers:
  - level: CRITICAL
    min: 70
    probability: 85-100%
    recommendations: [Personal call from manager, Special discount offer, Service review meeting]
  - level: HIGH
    min: 50
    probability: 65-84%
    recommendations: [Loyalty program offer, Feature education, Satisfaction survey]
  - level: MEDIUM
    min: 30
    probability: 35-64%
    recommendations: [Regular check-in calls, Newsletter, Usage tips]
  - level: LOW
    min: 0
    probability: 0-34%
    recommendations: [Continue excellent service, Upsell opportunities, Referral program]
`
}
