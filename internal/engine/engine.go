// Package engine wires the scorer to the operational stores shared by every
// shell: the current weights, the audit log, the history database and metrics.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ppiankov/churnwatch/internal/audit"
	"github.com/ppiankov/churnwatch/internal/history"
	"github.com/ppiankov/churnwatch/internal/metrics"
	"github.com/ppiankov/churnwatch/internal/model"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

// Config selects the weights file and the optional stores.
type Config struct {
	WeightsPath  string
	AuditLogPath string
	HistoryPath  string
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// Outcome is an assessment result plus the identifiers it was recorded under.
type Outcome struct {
	scoring.Result
	AssessmentID string
	WeightsHash  string
}

// Engine runs assessments against hot-swappable weights.
// It is safe for concurrent use.
type Engine struct {
	mu          sync.RWMutex
	weights     *scoring.Weights
	weightsHash string

	auditLog *audit.Log
	history  *history.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	cfg      Config
}

// New loads the weights and opens the configured stores.
func New(cfg Config) (*Engine, error) {
	w, hash, err := scoring.LoadWeightsWithHash(cfg.WeightsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load weights: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		weights:     w,
		weightsHash: hash,
		metrics:     cfg.Metrics,
		logger:      logger.With("component", "engine"),
		cfg:         cfg,
	}

	if cfg.AuditLogPath != "" {
		e.auditLog, err = audit.Open(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit log: %w", err)
		}
	}

	if cfg.HistoryPath != "" {
		e.history, err = history.Open(cfg.HistoryPath)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
	}

	return e, nil
}

// Weights returns the current weights and their hash.
func (e *Engine) Weights() (*scoring.Weights, string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weights, e.weightsHash
}

// SetWeights swaps in an already loaded configuration.
func (e *Engine) SetWeights(w *scoring.Weights, hash string) {
	e.mu.Lock()
	e.weights = w
	e.weightsHash = hash
	e.mu.Unlock()
}

// Reload re-reads the weights file and swaps it in atomically.
// On error the previous weights stay active.
func (e *Engine) Reload() error {
	w, hash, err := scoring.LoadWeightsWithHash(e.cfg.WeightsPath)
	if err != nil {
		return fmt.Errorf("failed to reload weights: %w", err)
	}
	e.SetWeights(w, hash)
	e.logger.Info("weights reloaded", "hash", hash)
	return nil
}

// Metrics returns the metrics assessments are observed into, possibly nil.
func (e *Engine) Metrics() *metrics.Metrics { return e.metrics }

// WeightsPath returns the configured weights file, possibly empty.
func (e *Engine) WeightsPath() string { return e.cfg.WeightsPath }

// Assess parses, scores and records one raw profile.
func (e *Engine) Assess(ctx context.Context, source string, raw scoring.RawProfile) Outcome {
	w, hash := e.Weights()
	res := scoring.Assess(raw, w)

	var profile *model.CustomerProfile
	if p, err := raw.Parse(); err == nil {
		profile = &p
	}
	return e.record(ctx, source, profile, res, hash)
}

// AssessProfile scores and records an already typed profile.
func (e *Engine) AssessProfile(ctx context.Context, source string, p model.CustomerProfile) Outcome {
	w, hash := e.Weights()
	res := scoring.AssessProfile(p, w)
	return e.record(ctx, source, &p, res, hash)
}

// record writes the outcome to every configured store. Store failures are
// logged and never change the assessment result.
func (e *Engine) record(ctx context.Context, source string, profile *model.CustomerProfile, res scoring.Result, hash string) Outcome {
	entry := audit.EntryFor(source, profile, res, hash)
	entry.AssessmentID = uuid.NewString()

	if e.auditLog != nil {
		if err := e.auditLog.Record(entry); err != nil {
			e.logger.Error("audit record failed", "assessment_id", entry.AssessmentID, "error", err)
		}
	}
	if e.history != nil {
		if err := e.history.Record(ctx, entry); err != nil {
			e.logger.Error("history record failed", "assessment_id", entry.AssessmentID, "error", err)
		}
	}
	e.metrics.Observe(source, res)

	if res.OK() {
		e.logger.Debug("assessment",
			"source", source,
			"assessment_id", entry.AssessmentID,
			"score", res.Report.RiskScore,
			"level", res.Report.RiskLevel,
		)
	} else {
		e.logger.Info("assessment failed",
			"source", source,
			"assessment_id", entry.AssessmentID,
			"error", entry.Error,
		)
	}

	return Outcome{Result: res, AssessmentID: entry.AssessmentID, WeightsHash: hash}
}

// Close closes the audit log and history store.
func (e *Engine) Close() error {
	var firstErr error
	if e.auditLog != nil {
		if err := e.auditLog.Close(); err != nil {
			firstErr = err
		}
	}
	if e.history != nil {
		if err := e.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
