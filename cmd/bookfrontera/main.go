package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/Nakotex7906/BookFronteraBack/internal/application"
	"github.com/Nakotex7906/BookFronteraBack/internal/calendarsync"
	"github.com/Nakotex7906/BookFronteraBack/internal/clock"
	"github.com/Nakotex7906/BookFronteraBack/internal/config"
	httptransport "github.com/Nakotex7906/BookFronteraBack/internal/http"
	"github.com/Nakotex7906/BookFronteraBack/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	clk, err := clock.NewSystemClock()
	if err != nil {
		logger.Error("failed to load canonical timezone", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(context.Background(), pool); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	hashPassword := func(password string) (string, error) {
		return application.CreatePasswordHash(password, application.DefaultArgon2idParams)
	}

	userRepo := sqlite.NewUserRepository(pool)
	roomRepo := sqlite.NewRoomRepository(pool)
	hourRepo := sqlite.NewOpeningHourRepository(pool)
	blackoutRepo := sqlite.NewBlackoutRepository(pool)
	reservationRepo := sqlite.NewReservationRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)

	calendar := calendarsync.NewPublisher(cfg.CalendarPath, logger)

	policy := application.BookingPolicy{
		MinDuration:     time.Duration(cfg.Booking.MinMinutes) * time.Minute,
		MaxDuration:     time.Duration(cfg.Booking.MaxMinutes) * time.Minute,
		SlotAlignment:   time.Duration(cfg.Booking.SlotMinutes) * time.Minute,
		ActiveLimit:     cfg.Booking.ActiveLimit,
		GridOpenHour:    cfg.Booking.GridOpenHour,
		GridCloseHour:   cfg.Booking.GridCloseHour,
		GridSlotMinutes: cfg.Booking.GridSlotMin,
	}

	reservationService := application.NewReservationServiceWithLogger(reservationRepo, roomRepo, hourRepo, blackoutRepo, userRepo, calendar, policy, clk, idGenerator, logger)
	availabilityService := application.NewAvailabilityServiceWithLogger(roomRepo, hourRepo, blackoutRepo, reservationRepo, policy, clk, logger)
	roomService := application.NewRoomServiceWithLogger(roomRepo, hourRepo, blackoutRepo, idGenerator, clk, logger)
	userService := application.NewUserServiceWithLogger(userRepo, hashPassword, idGenerator, clk, logger)
	authService := application.NewAuthServiceWithLogger(userRepo, sessionRepo, application.VerifyPassword, tokenGenerator, clk, cfg.SessionTTL, logger)

	authHandler := httptransport.NewAuthHandler(authService, logger)
	userHandler := httptransport.NewUserHandler(userService, logger)
	roomHandler := httptransport.NewRoomHandler(roomService, logger)
	reservationHandler := httptransport.NewReservationHandler(reservationService, logger)
	availabilityHandler := httptransport.NewAvailabilityHandler(availabilityService, logger)

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         authHandler,
		Users:        userHandler,
		Rooms:        roomHandler,
		Reservations: reservationHandler,
		Availability: availabilityHandler,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RateLimit(cfg.RateLimitPerMin, logger),
			httptransport.RequireSession(authService, logger, "/login"),
		},
	})

	jobs := cron.New()
	if _, err := jobs.AddFunc("@hourly", func() {
		if err := authService.PurgeExpiredSessions(context.Background()); err != nil {
			logger.Error("failed to purge expired sessions", "error", err)
		}
	}); err != nil {
		logger.Error("failed to schedule session purge", "error", err)
		os.Exit(1)
	}
	jobs.Start()
	defer jobs.Stop()

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

	logger.Info("reservation API listening", "addr", server.Addr, "zone", clk.Zone().String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
