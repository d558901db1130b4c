package interceptors

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LoggingServerInterceptor logs every call with its request id, status code
// and duration. It must run after RequestIDServerInterceptor.
func LoggingServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "grpc call",
			"method", info.FullMethod,
			"request_id", RequestIDFromContext(ctx),
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
