package scenario

import "github.com/ppiankov/churnwatch/internal/scoring"

// Expectation is what a case asserts about the assessment outcome.
// Level is required unless Error is set. Score, MinScore and MaxScore are optional.
type Expectation struct {
	Level    string `yaml:"level,omitempty"`
	Score    *int   `yaml:"score,omitempty"`
	MinScore *int   `yaml:"min_score,omitempty"`
	MaxScore *int   `yaml:"max_score,omitempty"`
	Error    bool   `yaml:"error,omitempty"`
}

// Case is one test case within a scenario.
type Case struct {
	Name    string             `yaml:"name,omitempty"`
	Profile scoring.RawProfile `yaml:"profile"`
	Expect  Expectation        `yaml:"expect"`
}

// Scenario is a named collection of assessment test cases.
// Weights optionally points at a weights file that overrides the caller's.
type Scenario struct {
	Name    string `yaml:"name"`
	Weights string `yaml:"weights,omitempty"`
	Cases   []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one test case.
type CaseResult struct {
	Index    int    `json:"index"`
	Name     string `json:"name,omitempty"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Score    int    `json:"score"`
	Reason   string `json:"reason,omitempty"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
