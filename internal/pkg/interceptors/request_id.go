// Package interceptors holds the unary gRPC interceptors shared by the
// fulfillment server and its operator client.
package interceptors

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/foodcart/internal/pkg/interceptors/constants"
)

// RequestIDServerInterceptor stores the caller's x-request-id in the context,
// generating one when the caller sent none.
func RequestIDServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		requestID := incoming(ctx, constants.HeaderXRequestId)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(constants.HeaderXRequestId, requestID))
		return handler(ctx, req)
	}
}

// RequestIDClientInterceptor sends the request id found in ctx, or a new
// one, as x-request-id metadata.
func RequestIDClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		requestID := RequestIDFromContext(ctx)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXRequestId, requestID)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
		return id
	}
	return incoming(ctx, constants.HeaderXRequestId)
}

// WithRequestID returns a context carrying id for RequestIDClientInterceptor.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

func incoming(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(key); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}
