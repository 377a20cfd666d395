package model

import "fmt"

// RiskLevel is the churn risk tier. Higher tier = more likely to churn.
type RiskLevel string

const (
	LevelLow      RiskLevel = "LOW"
	LevelMedium   RiskLevel = "MEDIUM"
	LevelHigh     RiskLevel = "HIGH"
	LevelCritical RiskLevel = "CRITICAL"
)

// Icon returns the fixed glyph shown next to the level in reports.
func (l RiskLevel) Icon() string {
	switch l {
	case LevelCritical:
		return "🚨"
	case LevelHigh:
		return "⚠️"
	case LevelMedium:
		return "📊"
	case LevelLow:
		return "✅"
	default:
		return "❔"
	}
}

// Display returns the icon and level, e.g. "⚠️ HIGH".
func (l RiskLevel) Display() string {
	return fmt.Sprintf("%s %s", l.Icon(), l)
}

// Factor is one additive contribution to the raw score.
type Factor struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// RiskReport is the outcome of scoring one CustomerProfile.
type RiskReport struct {
	Profile         CustomerProfile `json:"profile"`
	RawScore        int             `json:"raw_score"`
	RiskScore       int             `json:"risk_score"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	Probability     string          `json:"churn_probability"`
	Recommendations []string        `json:"recommendations"`
	Factors         []Factor        `json:"factors"`
}
