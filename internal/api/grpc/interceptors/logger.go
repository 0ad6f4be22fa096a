package interceptors

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LoggerUnaryInterceptor логирует каждый unary вызов:
// метод, код ответа и затраченное время
func LoggerUnaryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		st := status.Convert(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", st.Code().String()),
			zap.Duration("duration", time.Since(start)),
		}

		if err != nil {
			logger.Warn("gRPC request failed", append(fields, zap.String("error", st.Message()))...)
		} else {
			logger.Debug("gRPC request completed", fields...)
		}

		return resp, err
	}
}
