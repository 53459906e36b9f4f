package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetbook/internal/api"
	"meetbook/internal/config"
	"meetbook/internal/database"
	"meetbook/internal/domain"
	"meetbook/internal/events"
	"meetbook/internal/logging"
	"meetbook/internal/mailer"
	"meetbook/internal/metrics"
	"meetbook/internal/repository"
	"meetbook/internal/service"
	"meetbook/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := initLimiter(ctx, cfg, logger)

	notifier := initNotifier(cfg, logger)
	mailWorker := worker.NewMailWorker(notifier, worker.RetryPolicy{}, logger)
	go mailWorker.Start(ctx)

	bus := events.NewEventBus()
	mailWorker.SubscribeBookingEvents(bus)

	bookingService := service.NewBookingService(
		db, bus, cfg.Booking.ConflictAllStatuses, cfg.Booking.RequireProgramName, logger)
	userService := service.NewUserService(db, bus, cfg.Auth.BcryptCost, logger)

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
		go backup.Start(ctx)
	}

	startMetrics(ctx, cfg, logger)

	httpServer := api.NewHTTPServer(cfg, bookingService, userService, limiter, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// initLimiter builds the auth rate limiter: redis when reachable, with a
// local in-memory fallback behind the failover wrapper.
func initLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.LimiterRepository {
	memory := repository.NewMemoryLimiterRepository()

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory rate limiter")
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := repository.Ping(pingCtx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable at startup, failover starts on fallback")
	}

	return repository.NewFailoverLimiterRepository(
		repository.NewRedisLimiterRepository(client), memory, logger)
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) domain.Notifier {
	if cfg.SMTP.Enabled {
		return mailer.NewSMTPNotifier(cfg.SMTP, logger)
	}
	return mailer.NewNopNotifier(logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("metrics server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
