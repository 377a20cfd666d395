package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/churnwatch/internal/engine"
)

// SourceMCP tags assessments made through the MCP tool.
const SourceMCP = "mcp"

// Config holds MCP server configuration.
type Config struct {
	WeightsPath  string
	AuditLogPath string
	HistoryPath  string
	Version      string
}

// Server wraps the MCP SDK server with the churn scorer.
type Server struct {
	mcpServer *mcpsdk.Server
	engine    *engine.Engine
}

// New creates an MCP server with loaded weights and tools.
func New(cfg Config) (*Server, error) {
	eng, err := engine.New(engine.Config{
		WeightsPath:  cfg.WeightsPath,
		AuditLogPath: cfg.AuditLogPath,
		HistoryPath:  cfg.HistoryPath,
	})
	if err != nil {
		return nil, err
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{engine: eng}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "churnwatch",
			Version: version,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Engine returns the assessment engine, e.g. for a hot-reloader.
func (s *Server) Engine() *engine.Engine { return s.engine }

// Close closes the engine's stores.
func (s *Server) Close() error {
	return s.engine.Close()
}

// registerTools adds all churnwatch tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "churn_score",
		Description: "Score a customer's churn risk from age, tenure, monthly charges, support calls, contract, payment method and customer type. Returns the formatted assessment report.",
	}, s.handleScore)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "churn_tiers",
		Description: "List the risk tiers in effect: minimum score, churn probability range and retention recommendations.",
	}, s.handleTiers)
}
