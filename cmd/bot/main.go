package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pupkingeorgij/proofbot/internal/bot"
	"github.com/pupkingeorgij/proofbot/internal/config"
	"github.com/pupkingeorgij/proofbot/internal/db"
	"github.com/pupkingeorgij/proofbot/internal/disk"
	"github.com/pupkingeorgij/proofbot/internal/geocode"
	"github.com/pupkingeorgij/proofbot/internal/kafka"
	"github.com/pupkingeorgij/proofbot/internal/logger"
	"github.com/pupkingeorgij/proofbot/internal/ops"
	"github.com/pupkingeorgij/proofbot/internal/repository/postgresql"
	"github.com/pupkingeorgij/proofbot/internal/storage"
	"github.com/pupkingeorgij/proofbot/internal/transport"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.New()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		zap.S().Fatalf("failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		zap.S().Fatalf("failed to create media dir: %v", err)
	}

	database, err := db.NewDb(ctx, cfg.Dsn())
	if err != nil {
		zap.S().Fatalf("database init error: %v", err)
	}
	defer database.Close()

	userRepo := postgresql.NewUserRepo(database)
	orderRepo := postgresql.NewOrderRepo(database)
	reportRepo := postgresql.NewReportTaskRepo(database)
	stg := storage.NewPostgresStorage(userRepo, orderRepo, reportRepo)

	tg, err := transport.New(cfg.TelegramToken, cfg.MediaDir, cfg.MaxUploadSize)
	if err != nil {
		zap.S().Fatalf("failed to init transport: %v", err)
	}

	dispatcher := bot.NewDispatcher(bot.Config{
		MaxUploadSize:   cfg.MaxUploadSize,
		GroupChatID:     cfg.GroupChatID,
		CollectLocation: cfg.CollectLocation,
		CollectDistance: cfg.CollectDistance,
	}, stg, disk.NewClient(cfg.DiskToken), geocode.NewClient(cfg.GeocoderAPIKey), tg)

	var producer kafka.Producer
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBrokers[0] != "" {
		producer = kafka.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		producer = kafka.NewConsoleProducer()
	}
	publisher := kafka.NewPublisher(reportRepo, producer, kafka.PublisherConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    20,
		MaxAttempts:  5,
	})

	opsServer := ops.New(stg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tg.Run(gctx, dispatcher)
	})
	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return opsServer.Run(gctx, cfg.OpsPort)
	})

	zap.S().Info("proofbot started")

	if err := g.Wait(); err != nil {
		zap.S().Fatalf("service stopped with error: %v", err)
	}
	zap.S().Info("proofbot stopped")
}
