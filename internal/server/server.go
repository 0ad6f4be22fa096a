package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	grpcapi "notes-api/internal/api/grpc"
	httpapi "notes-api/internal/api/http"
	"notes-api/internal/api/http/middleware"
	"notes-api/internal/config"
	svc "notes-api/internal/service"
)

// Server представляет сервер приложения: REST API и gRPC health
type Server struct {
	// HTTP компоненты
	HTTPServer *http.Server
	HTTPAddr   string

	// gRPC компоненты
	GRPCServer *grpc.Server
	GRPCAddr   string
	Listener   net.Listener

	probe *grpcapi.HealthProbe

	// Контекст фоновых задач (health probe), отменяется при shutdown
	Ctx    context.Context
	Cancel context.CancelFunc

	Config *config.Config
	logger *zap.Logger
}

// NewServer создает сервер: маршруты REST, middleware, gRPC health
func NewServer(cfg *config.Config, noteService svc.NoteService, store grpcapi.Pinger, logger *zap.Logger) (*Server, error) {
	grpcPort := cfg.Server.PortGRPC
	httpPort := cfg.Server.PortHTTP

	if grpcPort == 0 {
		grpcPort = 50051
		logger.Warn("PortGRPC is 0, using default", zap.Int("port", grpcPort))
	}
	if httpPort == 0 {
		httpPort = 8080
		logger.Warn("PortHTTP is 0, using default", zap.Int("port", httpPort))
	}

	grpcAddr := "0.0.0.0:" + strconv.Itoa(grpcPort)
	httpAddr := "0.0.0.0:" + strconv.Itoa(httpPort)

	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", grpcAddr, err)
	}

	healthServer := health.NewServer()
	probe := grpcapi.NewHealthProbe(healthServer, store, cfg.Server.HealthInterval, logger)

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		HTTPServer: &http.Server{
			Addr:              httpAddr,
			Handler:           Handler(cfg.HTTP, httpapi.NewHandler(noteService, logger).Routes(), logger),
			ReadTimeout:       seconds(cfg.Server.HTTPReadTimeout),
			WriteTimeout:      seconds(cfg.Server.HTTPWriteTimeout),
			IdleTimeout:       seconds(cfg.Server.HTTPIdleTimeout),
			ReadHeaderTimeout: seconds(cfg.Server.HTTPReadHeaderTimeout),
		},
		HTTPAddr:   httpAddr,
		GRPCServer: grpcapi.NewServer(healthServer, logger),
		GRPCAddr:   grpcAddr,
		Listener:   listener,
		probe:      probe,
		Ctx:        ctx,
		Cancel:     cancel,
		Config:     cfg,
		logger:     logger,
	}, nil
}

// Handler оборачивает маршруты в middleware.
// Порядок выполнения: CORS → Logging → Rate Limiting → маршруты.
func Handler(cfg *config.ConfigHTTP, routes http.Handler, logger *zap.Logger) http.Handler {
	if cfg == nil {
		cfg = &config.ConfigHTTP{CORSAllowedOrigins: "*"}
	}

	handler := middleware.RateLimit(routes, cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	handler = middleware.Logging(handler, logger)
	handler = middleware.CORS(handler, cfg.CORSAllowedOrigins, cfg.CORSMaxAge)

	return handler
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Start запускает gRPC, HTTP серверы и health probe в горутинах
// Возвращает канал ошибок для отслеживания ошибок серверов
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 2)

	go s.probe.Run(s.Ctx)

	go func() {
		s.logger.Info("gRPC server listening", zap.String("addr", s.GRPCAddr))
		if err := s.GRPCServer.Serve(s.Listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.HTTPAddr))
		if err := s.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	return errChan
}

// Shutdown выполняет graceful shutdown сервера
func (s *Server) Shutdown() error {
	s.logger.Info("Starting graceful shutdown...")

	// Останавливаем probe, health переходит в NOT_SERVING
	s.Cancel()

	shutdownTimeout := seconds(s.Config.Server.GracefulShutdownTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	httpErr := s.HTTPServer.Shutdown(ctx)
	if httpErr != nil {
		s.logger.Error("HTTP server shutdown failed", zap.Error(httpErr))
	} else {
		s.logger.Info("HTTP server stopped gracefully")
	}

	stopped := make(chan struct{})
	go func() {
		s.GRPCServer.GracefulStop()
		close(stopped)
	}()

	// Ожидаем завершения или таймаут
	select {
	case <-stopped:
		s.logger.Info("gRPC server stopped gracefully")
		return httpErr
	case <-ctx.Done():
		s.logger.Warn("Graceful shutdown timeout, forcing stop...")
		s.GRPCServer.Stop()
		return errors.Join(httpErr, ctx.Err())
	}
}
