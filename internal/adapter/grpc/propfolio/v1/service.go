package propfoliov1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "propfolio.v1.PropertyMetricsService"

const (
	PropertyMetricsService_GetMetrics_FullMethodName         = "/propfolio.v1.PropertyMetricsService/GetMetrics"
	PropertyMetricsService_BatchGetMetrics_FullMethodName    = "/propfolio.v1.PropertyMetricsService/BatchGetMetrics"
	PropertyMetricsService_CalculateMetrics_FullMethodName   = "/propfolio.v1.PropertyMetricsService/CalculateMetrics"
	PropertyMetricsService_InvalidateMetrics_FullMethodName  = "/propfolio.v1.PropertyMetricsService/InvalidateMetrics"
	PropertyMetricsService_ListMetricsHistory_FullMethodName = "/propfolio.v1.PropertyMetricsService/ListMetricsHistory"
)

// PropertyMetricsServiceServer is the server API for PropertyMetricsService
type PropertyMetricsServiceServer interface {
	GetMetrics(context.Context, *GetMetricsRequest) (*GetMetricsResponse, error)
	BatchGetMetrics(context.Context, *BatchGetMetricsRequest) (*BatchGetMetricsResponse, error)
	CalculateMetrics(context.Context, *CalculateMetricsRequest) (*CalculateMetricsResponse, error)
	InvalidateMetrics(context.Context, *InvalidateMetricsRequest) (*InvalidateMetricsResponse, error)
	ListMetricsHistory(context.Context, *ListMetricsHistoryRequest) (*ListMetricsHistoryResponse, error)
}

// UnimplementedPropertyMetricsServiceServer can be embedded to have forward compatible implementations
type UnimplementedPropertyMetricsServiceServer struct{}

func (UnimplementedPropertyMetricsServiceServer) GetMetrics(context.Context, *GetMetricsRequest) (*GetMetricsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMetrics not implemented")
}

func (UnimplementedPropertyMetricsServiceServer) BatchGetMetrics(context.Context, *BatchGetMetricsRequest) (*BatchGetMetricsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method BatchGetMetrics not implemented")
}

func (UnimplementedPropertyMetricsServiceServer) CalculateMetrics(context.Context, *CalculateMetricsRequest) (*CalculateMetricsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CalculateMetrics not implemented")
}

func (UnimplementedPropertyMetricsServiceServer) InvalidateMetrics(context.Context, *InvalidateMetricsRequest) (*InvalidateMetricsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method InvalidateMetrics not implemented")
}

func (UnimplementedPropertyMetricsServiceServer) ListMetricsHistory(context.Context, *ListMetricsHistoryRequest) (*ListMetricsHistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMetricsHistory not implemented")
}

// RegisterPropertyMetricsServiceServer registers srv with a gRPC server
func RegisterPropertyMetricsServiceServer(s grpc.ServiceRegistrar, srv PropertyMetricsServiceServer) {
	s.RegisterService(&PropertyMetricsService_ServiceDesc, srv)
}

// unaryHandler adapts one typed service method to a grpc.MethodHandler
func unaryHandler[Req any, Resp any](
	fullMethod string,
	call func(PropertyMetricsServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PropertyMetricsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PropertyMetricsServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PropertyMetricsService_ServiceDesc is the grpc.ServiceDesc for PropertyMetricsService
var PropertyMetricsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PropertyMetricsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetMetrics",
			Handler:    unaryHandler(PropertyMetricsService_GetMetrics_FullMethodName, PropertyMetricsServiceServer.GetMetrics),
		},
		{
			MethodName: "BatchGetMetrics",
			Handler:    unaryHandler(PropertyMetricsService_BatchGetMetrics_FullMethodName, PropertyMetricsServiceServer.BatchGetMetrics),
		},
		{
			MethodName: "CalculateMetrics",
			Handler:    unaryHandler(PropertyMetricsService_CalculateMetrics_FullMethodName, PropertyMetricsServiceServer.CalculateMetrics),
		},
		{
			MethodName: "InvalidateMetrics",
			Handler:    unaryHandler(PropertyMetricsService_InvalidateMetrics_FullMethodName, PropertyMetricsServiceServer.InvalidateMetrics),
		},
		{
			MethodName: "ListMetricsHistory",
			Handler:    unaryHandler(PropertyMetricsService_ListMetricsHistory_FullMethodName, PropertyMetricsServiceServer.ListMetricsHistory),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// PropertyMetricsServiceClient is the client API for PropertyMetricsService
type PropertyMetricsServiceClient interface {
	GetMetrics(ctx context.Context, in *GetMetricsRequest, opts ...grpc.CallOption) (*GetMetricsResponse, error)
	BatchGetMetrics(ctx context.Context, in *BatchGetMetricsRequest, opts ...grpc.CallOption) (*BatchGetMetricsResponse, error)
	CalculateMetrics(ctx context.Context, in *CalculateMetricsRequest, opts ...grpc.CallOption) (*CalculateMetricsResponse, error)
	InvalidateMetrics(ctx context.Context, in *InvalidateMetricsRequest, opts ...grpc.CallOption) (*InvalidateMetricsResponse, error)
	ListMetricsHistory(ctx context.Context, in *ListMetricsHistoryRequest, opts ...grpc.CallOption) (*ListMetricsHistoryResponse, error)
}

type propertyMetricsServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPropertyMetricsServiceClient returns a client that encodes every call with the JSON codec
func NewPropertyMetricsServiceClient(cc grpc.ClientConnInterface) PropertyMetricsServiceClient {
	return &propertyMetricsServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *propertyMetricsServiceClient) GetMetrics(ctx context.Context, in *GetMetricsRequest, opts ...grpc.CallOption) (*GetMetricsResponse, error) {
	return invoke[GetMetricsResponse](ctx, c.cc, PropertyMetricsService_GetMetrics_FullMethodName, in, opts)
}

func (c *propertyMetricsServiceClient) BatchGetMetrics(ctx context.Context, in *BatchGetMetricsRequest, opts ...grpc.CallOption) (*BatchGetMetricsResponse, error) {
	return invoke[BatchGetMetricsResponse](ctx, c.cc, PropertyMetricsService_BatchGetMetrics_FullMethodName, in, opts)
}

func (c *propertyMetricsServiceClient) CalculateMetrics(ctx context.Context, in *CalculateMetricsRequest, opts ...grpc.CallOption) (*CalculateMetricsResponse, error) {
	return invoke[CalculateMetricsResponse](ctx, c.cc, PropertyMetricsService_CalculateMetrics_FullMethodName, in, opts)
}

func (c *propertyMetricsServiceClient) InvalidateMetrics(ctx context.Context, in *InvalidateMetricsRequest, opts ...grpc.CallOption) (*InvalidateMetricsResponse, error) {
	return invoke[InvalidateMetricsResponse](ctx, c.cc, PropertyMetricsService_InvalidateMetrics_FullMethodName, in, opts)
}

func (c *propertyMetricsServiceClient) ListMetricsHistory(ctx context.Context, in *ListMetricsHistoryRequest, opts ...grpc.CallOption) (*ListMetricsHistoryResponse, error) {
	return invoke[ListMetricsHistoryResponse](ctx, c.cc, PropertyMetricsService_ListMetricsHistory_FullMethodName, in, opts)
}
