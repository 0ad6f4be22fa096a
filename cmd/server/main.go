package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"notes-api/internal/config"
	"notes-api/internal/logger"
	"notes-api/internal/server"
	notesService "notes-api/internal/service/notes"
)

func main() {
	configFile := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию из файла
	appConfig, err := config.InitConfig[config.Config](*configFile)
	if err != nil {
		log.Fatalf("Error initializing config: %v", err)
	}

	zapLogger, err := logger.New(appConfig.Logger.Level, appConfig.Logger.Env)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(appConfig, zapLogger); err != nil {
		zapLogger.Fatal("Notes API failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Инициализация компонентов (DI): Store → Service → Handler
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", zap.Error(err))
		}
	}()

	events := notesService.NewEventService()
	audit := events.Subscribe()
	defer events.Unsubscribe(audit)
	go auditLog(audit, logger)

	noteSvc := notesService.NewNoteService(store, logger, notesService.WithEvents(events))
	logger.Info("Initialized note service")

	srv, err := server.NewServer(cfg, noteSvc, store, logger)
	if err != nil {
		return err
	}

	// Канал для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := srv.Start()

	// Ожидание сигнала или ошибки
	select {
	case err := <-errChan:
		logger.Error("Server error", zap.Error(err))
	case sig := <-sigChan:
		logger.Info("Received signal", zap.String("signal", sig.String()))
	}

	if err := srv.Shutdown(); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	logger.Info("Notes API stopped")
	return nil
}

// auditLog пишет в лог каждое изменение заметок до закрытия канала
func auditLog(events <-chan notesService.NoteEvent, logger *zap.Logger) {
	for event := range events {
		logger.Info("note changed",
			zap.String("event", string(event.Type)),
			zap.Int64("note_id", event.Note.ID),
			zap.Time("at", event.At),
		)
	}
}
