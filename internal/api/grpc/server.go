package grpc

import (
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"notes-api/internal/api/grpc/interceptors"
)

// NewServer создает gRPC сервер со стандартным health сервисом и reflection
func NewServer(healthServer *health.Server, logger *zap.Logger) *grpc.Server {
	grpcServer := grpc.NewServer(
		// Ограничиваем количество одновременных стримов
		grpc.MaxConcurrentStreams(25),
		// KeepAlive параметры для защиты от зависших соединений
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     30 * time.Minute, // Закрытие неактивных соединений через 30 минут
			MaxConnectionAge:      1 * time.Hour,    // Ротация соединений
			MaxConnectionAgeGrace: 5 * time.Second,  // Ожидание завершения активных запросов перед закрытием
			Time:                  10 * time.Minute, // Время между пингами
			Timeout:               20 * time.Second, // Время ожидания ответа на ping
		}),
		grpc.ChainUnaryInterceptor(
			interceptors.LoggerUnaryInterceptor(logger),
		),
	)

	healthpb.RegisterHealthServer(grpcServer, healthServer)
	logger.Info("Registered gRPC health service")

	// Настройка reflection (для grpcurl/grpcui)
	reflection.Register(grpcServer)
	logger.Info("Enabled gRPC reflection")

	return grpcServer
}
