package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mkravets/docbooking/config"
	"github.com/mkravets/docbooking/internal/audit"
	"github.com/mkravets/docbooking/internal/cache"
	"github.com/mkravets/docbooking/internal/email"
	"github.com/mkravets/docbooking/internal/kafka"
	"github.com/mkravets/docbooking/internal/ledger"
	"github.com/mkravets/docbooking/internal/repository"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "docbooking-worker").Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisClient := cache.NewClient(cfg.Redis)
	defer redisClient.Close()
	slotLedger := ledger.NewRedis(redisClient)

	appointmentRepo := repository.NewAppointmentRepository(pool)
	lookback := time.Duration(cfg.Worker.ReconcileLookbackHours) * time.Hour
	reconciler := audit.NewReconciler(appointmentRepo, slotLedger, lookback, log)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()

	emailSender := email.NewSender(log)

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("consumer stopped")
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.ReconcileSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			faults, err := reconciler.Sweep(ctx)
			if err != nil {
				log.Error().Err(err).Msg("reconcile sweep failed")
				continue
			}
			if faults > 0 {
				log.Warn().Int("faults", faults).Msg("reconcile sweep found consistency faults")
			}
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		}
	}
}
