package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	pb "github.com/ppiankov/churnwatch/api/churnwatch/v1"
	"github.com/ppiankov/churnwatch/internal/engine"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

// SourceGRPC tags assessments that arrive over gRPC.
const SourceGRPC = "grpc"

// Config holds gRPC server configuration.
type Config struct {
	Port         int
	WeightsPath  string
	AuditLogPath string
	HistoryPath  string
}

// Server implements the ChurnService gRPC server.
type Server struct {
	pb.UnimplementedChurnServiceServer

	engine     *engine.Engine
	health     *health.Server
	logger     *slog.Logger
	cfg        Config
	grpcServer *grpc.Server
}

// New creates a gRPC server with loaded weights and optional stores.
func New(cfg Config) (*Server, error) {
	eng, err := engine.New(engine.Config{
		WeightsPath:  cfg.WeightsPath,
		AuditLogPath: cfg.AuditLogPath,
		HistoryPath:  cfg.HistoryPath,
	})
	if err != nil {
		return nil, err
	}
	return NewWithEngine(eng, cfg), nil
}

// NewWithEngine creates a gRPC server around an existing engine.
func NewWithEngine(eng *engine.Engine, cfg Config) *Server {
	s := &Server{
		engine:     eng,
		health:     health.NewServer(),
		logger:     slog.Default().With("component", "grpc"),
		cfg:        cfg,
		grpcServer: grpc.NewServer(grpc.UnaryInterceptor(logInterceptor)),
	}

	pb.RegisterChurnServiceServer(s.grpcServer, s)
	healthpb.RegisterHealthServer(s.grpcServer, s.health)
	s.health.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

// Engine returns the assessment engine, e.g. for a hot-reloader.
func (s *Server) Engine() *engine.Engine { return s.engine }

// Serve starts the gRPC server on the configured port. Blocks until stopped.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}
	return s.ServeOn(lis)
}

// ServeOn starts the gRPC server on the given listener.
func (s *Server) ServeOn(lis net.Listener) error {
	s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
	return s.grpcServer.Serve(lis)
}

// GracefulStop marks the service not serving and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}

// Close cleans up resources.
func (s *Server) Close() error {
	return s.engine.Close()
}

// Score implements the Score RPC. Bad input is reported in the response
// Error field; the RPC itself only fails on transport problems.
func (s *Server) Score(ctx context.Context, req *pb.ScoreRequest) (*pb.ScoreResponse, error) {
	out := s.engine.Assess(ctx, SourceGRPC, requestToRaw(req))

	resp := &pb.ScoreResponse{
		WeightsHash:  out.WeightsHash,
		AssessmentId: out.AssessmentID,
	}
	if !out.OK() {
		resp.Error = out.String()
		return resp, nil
	}

	r := out.Report
	resp.Report = out.Text
	resp.Score = int32(r.RiskScore)
	resp.Level = string(r.RiskLevel)
	resp.Probability = r.Probability
	resp.Recommendations = r.Recommendations
	return resp, nil
}

func requestToRaw(req *pb.ScoreRequest) scoring.RawProfile {
	return scoring.RawProfile{
		Age:            scoring.Field(req.Age),
		TenureMonths:   scoring.Field(req.TenureMonths),
		MonthlyCharges: scoring.Field(req.MonthlyCharges),
		SupportCalls:   scoring.Field(req.SupportCalls),
		ContractType:   scoring.Field(req.ContractType),
		PaymentMethod:  scoring.Field(req.PaymentMethod),
		CustomerType:   scoring.Field(req.CustomerType),
	}
}

func logInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		slog.Default().Warn("rpc failed", "method", info.FullMethod, "error", err)
	}
	return resp, err
}
