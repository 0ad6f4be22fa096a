package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName имя сервиса в health протоколе
const ServiceName = "notes.NotesService"

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthProbe периодически проверяет хранилище и переключает статус
// SERVING / NOT_SERVING для общего статуса и для ServiceName
type HealthProbe struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *zap.Logger
}

// NewHealthProbe создает probe. interval <= 0 заменяется на 10 секунд.
func NewHealthProbe(server *health.Server, pinger Pinger, interval time.Duration, logger *zap.Logger) *HealthProbe {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	return &HealthProbe{
		server:   server,
		pinger:   pinger,
		interval: interval,
		logger:   logger,
	}
}

// Check выполняет одну проверку и возвращает выставленный статус
func (p *HealthProbe) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := p.pinger.Ping(ctx); err != nil {
		p.logger.Warn("storage ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	p.server.SetServingStatus("", status)
	p.server.SetServingStatus(ServiceName, status)

	return status
}

// Run проверяет хранилище сразу и затем каждые interval до отмены ctx.
// При выходе переводит все сервисы в NOT_SERVING.
func (p *HealthProbe) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	last := p.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			p.server.Shutdown()
			return
		case <-ticker.C:
			if status := p.Check(ctx); status != last {
				p.logger.Info("health status changed", zap.String("status", status.String()))
				last = status
			}
		}
	}
}
