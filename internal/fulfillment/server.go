package fulfillment

import (
	"context"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/pkg/interceptors"
)

// StatusApplier performs a validated status transition.
type StatusApplier interface {
	ApplyStatus(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error)
}

type Server struct {
	applier StatusApplier
}

func NewServer(applier StatusApplier) *Server {
	return &Server{applier: applier}
}

var _ FulfillmentServer = (*Server)(nil)

func (s *Server) UpdateOrderStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	orderID, raw := parseStatusRequest(req)
	if orderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	to, err := domain.ParseOrderStatus(raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	o, err := s.applier.ApplyStatus(ctx, orderID, to)
	if err != nil {
		return nil, status.Error(codeOf(err), err.Error())
	}
	return orderToStruct(o), nil
}

func codeOf(err error) codes.Code {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindInvalidInput:
		return codes.InvalidArgument
	case domain.KindNotAllowed:
		return codes.FailedPrecondition
	case domain.KindRemoteStoreFailure:
		return codes.Unavailable
	}
	return codes.Internal
}

// NewGRPCServer builds a grpc.Server with tracing, request ids and access
// logs, serving srv.
func NewGRPCServer(srv FulfillmentServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.RequestIDServerInterceptor(),
			interceptors.LoggingServerInterceptor(),
		),
	}, opts...)

	s := grpc.NewServer(opts...)
	RegisterFulfillmentServer(s, srv)
	return s
}
