package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/churnwatch/internal/scoring"
)

// outcomeError is the Actual value recorded for a case whose assessment failed.
const outcomeError = "error"

// Run evaluates all cases in a scenario against the given weights.
// A nil w means the built-in defaults. Cases are independent.
func Run(s *Scenario, w *scoring.Weights) *RunResult {
	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		res := scoring.Assess(c.Profile, w)
		cr := evaluate(c, res)
		cr.Index = i + 1
		cr.Name = c.Name

		if cr.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Cases = append(result.Cases, cr)
	}

	return result
}

func evaluate(c Case, res scoring.Result) CaseResult {
	cr := CaseResult{Expected: expectedLabel(c.Expect)}

	if !res.OK() {
		cr.Actual = outcomeError
		cr.Reason = res.String()
		cr.Passed = c.Expect.Error
		return cr
	}

	r := res.Report
	cr.Actual = string(r.RiskLevel)
	cr.Score = r.RiskScore

	switch {
	case c.Expect.Error:
		cr.Reason = "expected an error"
	case !strings.EqualFold(c.Expect.Level, string(r.RiskLevel)):
		cr.Reason = fmt.Sprintf("level %s, score %d", r.RiskLevel, r.RiskScore)
	case c.Expect.Score != nil && *c.Expect.Score != r.RiskScore:
		cr.Reason = fmt.Sprintf("score %d, expected %d", r.RiskScore, *c.Expect.Score)
	case c.Expect.MinScore != nil && r.RiskScore < *c.Expect.MinScore:
		cr.Reason = fmt.Sprintf("score %d below min %d", r.RiskScore, *c.Expect.MinScore)
	case c.Expect.MaxScore != nil && r.RiskScore > *c.Expect.MaxScore:
		cr.Reason = fmt.Sprintf("score %d above max %d", r.RiskScore, *c.Expect.MaxScore)
	default:
		cr.Passed = true
	}
	return cr
}

func expectedLabel(e Expectation) string {
	if e.Error {
		return outcomeError
	}
	label := strings.ToUpper(e.Level)
	if e.Score != nil {
		label += fmt.Sprintf(" (%d)", *e.Score)
	}
	return label
}

// Load parses a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadAndRun loads a scenario YAML file and the weights, and runs.
// A weights path set inside the scenario wins over weightsPath and is
// resolved relative to the scenario file.
func LoadAndRun(path, weightsPath string) (*RunResult, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}

	if s.Weights != "" {
		weightsPath = s.Weights
		if !filepath.IsAbs(weightsPath) {
			weightsPath = filepath.Join(filepath.Dir(path), weightsPath)
		}
	}

	w, err := scoring.LoadWeights(weightsPath)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}

	result := Run(s, w)
	result.File = path

	return result, nil
}
