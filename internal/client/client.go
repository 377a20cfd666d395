package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	pb "github.com/ppiankov/churnwatch/api/churnwatch/v1"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

// callTimeout bounds every RPC.
const callTimeout = 5 * time.Second

// Client connects to a churnwatch gRPC scoring server.
type Client struct {
	conn   *grpc.ClientConn
	client pb.ChurnServiceClient
	health healthpb.HealthClient
}

// New creates a gRPC client for the given address. The connection is lazy:
// an unreachable server surfaces as an error from the first call.
func New(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to scoring server: %w", err)
	}
	return &Client{
		conn:   conn,
		client: pb.NewChurnServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
	}, nil
}

// Score sends one raw profile to the remote server.
// A computation error comes back in resp.Error with a nil err.
func (c *Client) Score(ctx context.Context, raw scoring.RawProfile) (*pb.ScoreResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := c.client.Score(ctx, rawToRequest(raw))
	if err != nil {
		return nil, fmt.Errorf("scoring server: %w", err)
	}
	return resp, nil
}

// Healthy reports whether the remote ChurnService is serving.
func (c *Client) Healthy(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	if err != nil {
		return false, fmt.Errorf("health check: %w", err)
	}
	return resp.Status == healthpb.HealthCheckResponse_SERVING, nil
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Text returns what a shell displays for a response: the report or the error.
func Text(resp *pb.ScoreResponse) string {
	if resp.Error != "" {
		return resp.Error
	}
	return resp.Report
}

func rawToRequest(raw scoring.RawProfile) *pb.ScoreRequest {
	return &pb.ScoreRequest{
		Age:            string(raw.Age),
		TenureMonths:   string(raw.TenureMonths),
		MonthlyCharges: string(raw.MonthlyCharges),
		SupportCalls:   string(raw.SupportCalls),
		ContractType:   string(raw.ContractType),
		PaymentMethod:  string(raw.PaymentMethod),
		CustomerType:   string(raw.CustomerType),
	}
}
