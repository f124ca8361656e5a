package rpcserver

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc"
)

// LoggingInterceptor stamps every unary call with a correlation ID and logs
// its method name and outcome through log, much as internal/cache generates
// a per-session RunID.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		reqID := uuid.NewString()
		log.Debug("rpc request", "id", reqID, "method", info.FullMethod)
		resp, err := handler(ctx, req)
		if err != nil {
			log.Warn("rpc request failed", "id", reqID, "method", info.FullMethod, "error", err)
		}
		return resp, err
	}
}
