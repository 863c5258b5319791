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
	"github.com/mkravets/docbooking/internal/bootstrap"
	"github.com/mkravets/docbooking/internal/cache"
	"github.com/mkravets/docbooking/internal/kafka"
	"github.com/mkravets/docbooking/internal/ledger"
	"github.com/mkravets/docbooking/internal/repository"
	"github.com/mkravets/docbooking/internal/service/booking"
	"github.com/mkravets/docbooking/internal/service/doctors"
	"github.com/mkravets/docbooking/internal/service/lifecycle"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "docbooking-api").Logger()

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

	doctorCache := cache.NewDoctorCache(redisClient, time.Duration(cfg.Doctors.CacheTTLSeconds)*time.Second)
	slotLedger := ledger.NewRedis(redisClient)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	doctorRepo := repository.NewDoctorRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)

	doctorSvc := doctors.NewDoctorService(doctorRepo, doctorCache)
	engine := booking.NewEngine(
		appointmentRepo,
		doctorRepo,
		slotLedger,
		producer,
		cfg.Kafka.AppointmentsTopic,
		log,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	lifecycleSvc := lifecycle.NewManager(
		appointmentRepo,
		slotLedger,
		producer,
		cfg.Kafka.AppointmentsTopic,
		log,
		lifecycle.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, doctorSvc, engine, lifecycleSvc, log); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
