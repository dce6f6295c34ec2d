package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dentalos/clinic-backend/internal/appointment"
	"github.com/dentalos/clinic-backend/internal/clinic"
	"github.com/dentalos/clinic-backend/internal/config"
	"github.com/dentalos/clinic-backend/internal/db"
	redisclient "github.com/dentalos/clinic-backend/internal/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("no-show worker starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval),
		zap.Duration("grace", cfg.NoShowGrace))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	clinicRepo := clinic.NewPgRepository(pgPool)
	clinicSvc := clinic.NewService(clinicRepo, logger)

	apptRepo := appointment.NewPgRepository(pgPool)
	// The sweep only performs conditioned status flips, so it needs neither
	// Redis nor the doctor lock.
	svc := appointment.NewService(apptRepo, clinicRepo, clinicSvc, redisclient.NoopLocker{}, logger, cfg.NoShowGrace)

	// Run once at startup
	runOnce(rootCtx, svc, logger)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info("shutdown signal received, stopping no-show worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc, logger)
		}
	}
}

func runOnce(ctx context.Context, svc *appointment.Service, logger *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	marked, err := svc.MarkNoShows(runCtx)
	if err != nil {
		logger.Error("no-show sweep failed", zap.Error(err))
		return
	}
	logger.Info("no-show sweep complete",
		zap.Int("marked", marked),
		zap.Duration("took", time.Since(start)))
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
