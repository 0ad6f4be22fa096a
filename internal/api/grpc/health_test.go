package grpc

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

type fakePinger struct {
	failing atomic.Bool
}

func (p *fakePinger) Ping(ctx context.Context) error {
	if p.failing.Load() {
		return errors.New("database is down")
	}
	return nil
}

// statusOf возвращает SERVICE_UNKNOWN, пока статус сервиса не выставлен
func statusOf(hs *health.Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_SERVICE_UNKNOWN
	}
	return resp.Status
}

func TestHealthProbe_Check(t *testing.T) {
	// Arrange
	hs := health.NewServer()
	pinger := &fakePinger{}
	probe := NewHealthProbe(hs, pinger, time.Second, zap.NewNop())

	// Act & Assert
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, probe.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(hs, ServiceName))

	pinger.failing.Store(true)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, probe.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(hs, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(hs, ServiceName))
}

func TestHealthProbe_Run(t *testing.T) {
	hs := health.NewServer()
	pinger := &fakePinger{}
	probe := NewHealthProbe(hs, pinger, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		probe.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return statusOf(hs, ServiceName) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	pinger.failing.Store(true)
	require.Eventually(t, func() bool {
		return statusOf(hs, ServiceName) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("probe did not stop after context cancellation")
	}
}

func TestNewServer_ServesHealth(t *testing.T) {
	// Arrange
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(hs, zap.NewNop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// Act
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
