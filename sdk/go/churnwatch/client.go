package churnwatch

import (
	"context"
	"fmt"

	"github.com/ppiankov/churnwatch/internal/engine"
)

// SourceSDK is the default source tag for assessments made through the SDK.
const SourceSDK = "sdk"

// Client scores customers in-process. Safe for concurrent use.
type Client struct {
	cfg    clientConfig
	engine *engine.Engine
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := clientConfig{source: SourceSDK}
	for _, o := range opts {
		o(&cfg)
	}

	eng, err := engine.New(engine.Config{
		WeightsPath:  cfg.weightsPath,
		AuditLogPath: cfg.auditLogPath,
		HistoryPath:  cfg.historyPath,
	})
	if err != nil {
		return nil, fmt.Errorf("churnwatch: %w", err)
	}

	return &Client{cfg: cfg, engine: eng}, nil
}

// Score assesses a typed customer profile.
func (c *Client) Score(ctx context.Context, customer Customer) (*Assessment, error) {
	return toAssessment(c.engine.AssessProfile(ctx, c.cfg.source, customer.toProfile()))
}

// Assess parses and assesses an untyped profile. Malformed numbers return
// a *ScoreError whose message starts with "Error: ".
func (c *Client) Assess(ctx context.Context, fields Fields) (*Assessment, error) {
	return toAssessment(c.engine.Assess(ctx, c.cfg.source, fields.toRaw()))
}

// Reload re-reads the weights file. On error the previous weights stay active.
func (c *Client) Reload() error {
	return c.engine.Reload()
}

// WeightsHash returns the hash of the weights currently in effect.
func (c *Client) WeightsHash() string {
	_, hash := c.engine.Weights()
	return hash
}

// Close closes the audit log and history database.
func (c *Client) Close() error {
	return c.engine.Close()
}
