package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/config"
	httptransport "github.com/example/room-booking/internal/http"
	"github.com/example/room-booking/internal/logging"
	"github.com/example/room-booking/internal/persistence/sqlite"
	"github.com/example/room-booking/internal/retention"
	"github.com/example/room-booking/internal/web"
)

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	roomService := application.NewRoomService(storage.Rooms, idGenerator, now, logger)
	reservationService := application.NewReservationService(storage.Reservations, storage.Rooms, idGenerator, now, logger)

	purger := retention.NewPurger(storage.Reservations, cfg.RetentionAge, cfg.RetentionSchedule, logger)
	if err := purger.Start(ctx); err != nil {
		logger.Error("failed to start retention purge", "error", err)
		os.Exit(1)
	}
	defer purger.Stop()

	ui := web.NewHandler(roomService, reservationService, cfg.Timezone, logger)

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:        roomService,
		Reservations: reservationService,
		Timezone:     cfg.Timezone,
		Logger:       logger,
		UI:           ui,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("room booking server listening", "addr", server.Addr, "timezone", cfg.Timezone.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
