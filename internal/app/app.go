package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/imagehub/imagehub/config"
	kafkactrl "github.com/imagehub/imagehub/internal/controller/kafka"
	"github.com/imagehub/imagehub/internal/controller/restapi"
	infrakafka "github.com/imagehub/imagehub/internal/infrastructure/kafka"
	"github.com/imagehub/imagehub/internal/infrastructure/processor"
	"github.com/imagehub/imagehub/internal/repo/persistent"
	"github.com/imagehub/imagehub/internal/usecase/image"
	"github.com/imagehub/imagehub/pkg/httpserver"
	"github.com/imagehub/imagehub/pkg/kafka/consumer"
	"github.com/imagehub/imagehub/pkg/kafka/producer"
	"github.com/imagehub/imagehub/pkg/logger"
	"github.com/imagehub/imagehub/pkg/postgres"
	"github.com/imagehub/imagehub/pkg/s3client"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	// Kafka Producer
	kafkaProducer, err := producer.New(ctx, cfg.Kafka.Brokers)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - producer.New: %w", err))
	}

	// Use-Case
	imageUseCase := image.New(
		persistent.NewImageStorage(s3c, cfg.S3.Bucket),
		persistent.NewImageMetadataRepo(pg),
		infrakafka.NewResizeProducer(kafkaProducer, cfg.Kafka.Topic),
		processor.New(),
		cfg.Image.ThumbnailHeight,
		cfg.Image.PreSignedTTL,
		l,
	)

	// Kafka Consumer
	kafkaConsumer, err := consumer.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - consumer.New: %w", err))
	}

	// Kafka as Controller
	kafkaController := kafkactrl.New(
		imageUseCase,
		infrakafka.NewEventConsumer(kafkaConsumer),
		l,
		cfg.Worker.CommitTimeout,
		cfg.Worker.ProcessTimeout,
		runtime.NumCPU(),
	)

	// HTTP Server
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, cfg, imageUseCase, l)

	// Start Components
	err = kafkaController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - kafkaController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	kcShutdownCtx, kcShutdownCancel := context.WithTimeout(ctx, cfg.Worker.ShutdownTimeout)
	defer kcShutdownCancel()
	err = kafkaController.Shutdown(kcShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - kafkaController.Shutdown: %w", err))
	}

	err = kafkaProducer.Close()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - kafkaProducer.Close: %w", err))
	}
}
