// Package churnwatchv1 defines the churnwatch.v1.ChurnService gRPC API.
//
// Messages are plain Go structs carried with a JSON codec; the service
// descriptor and client stub below take the place of generated code.
package churnwatchv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "churnwatch.v1.ChurnService"

// ScoreMethod is the full method path of the Score RPC.
const ScoreMethod = "/" + ServiceName + "/Score"

// ScoreRequest carries one customer profile as raw form values.
type ScoreRequest struct {
	Age            string `json:"age"`
	TenureMonths   string `json:"tenure_months"`
	MonthlyCharges string `json:"monthly_charges"`
	SupportCalls   string `json:"support_calls"`
	ContractType   string `json:"contract_type"`
	PaymentMethod  string `json:"payment_method"`
	CustomerType   string `json:"customer_type"`
}

// ScoreResponse is the outcome of one assessment. Exactly one of Report
// and Error is set; bad input is reported in Error, not as an RPC status.
type ScoreResponse struct {
	Report          string   `json:"report,omitempty"`
	Score           int32    `json:"score"`
	Level           string   `json:"level,omitempty"`
	Probability     string   `json:"probability,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	WeightsHash     string   `json:"weights_hash"`
	AssessmentId    string   `json:"assessment_id"`
	Error           string   `json:"error,omitempty"`
}

// ChurnServiceServer is the server API for ChurnService.
type ChurnServiceServer interface {
	Score(context.Context, *ScoreRequest) (*ScoreResponse, error)
	mustEmbedUnimplementedChurnServiceServer()
}

// UnimplementedChurnServiceServer provides forward-compatible default implementations.
type UnimplementedChurnServiceServer struct{}

func (UnimplementedChurnServiceServer) Score(context.Context, *ScoreRequest) (*ScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Score not implemented")
}
func (UnimplementedChurnServiceServer) mustEmbedUnimplementedChurnServiceServer() {}

// RegisterChurnServiceServer registers srv with the gRPC server.
func RegisterChurnServiceServer(s grpc.ServiceRegistrar, srv ChurnServiceServer) {
	s.RegisterService(&ChurnService_ServiceDesc, srv)
}

// ChurnService_ServiceDesc is the grpc.ServiceDesc for ChurnService.
var ChurnService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ChurnServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Score", Handler: _ChurnService_Score_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "churnwatch/v1/churn.proto",
}

func _ChurnService_Score_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ScoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChurnServiceServer).Score(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ScoreMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChurnServiceServer).Score(ctx, req.(*ScoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ChurnServiceClient is the client API for ChurnService.
type ChurnServiceClient interface {
	Score(ctx context.Context, in *ScoreRequest, opts ...grpc.CallOption) (*ScoreResponse, error)
}

type churnServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewChurnServiceClient returns a client stub that always uses the JSON codec.
func NewChurnServiceClient(cc grpc.ClientConnInterface) ChurnServiceClient {
	return &churnServiceClient{cc: cc}
}

func (c *churnServiceClient) Score(ctx context.Context, in *ScoreRequest, opts ...grpc.CallOption) (*ScoreResponse, error) {
	out := new(ScoreResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, ScoreMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
