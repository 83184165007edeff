package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/catalog/config"
	"github.com/Astemirdum/local-library/catalog/internal/handler"
	"github.com/Astemirdum/local-library/catalog/internal/repository"
	"github.com/Astemirdum/local-library/catalog/internal/server"
	"github.com/Astemirdum/local-library/catalog/internal/service"
	"github.com/Astemirdum/local-library/catalog/internal/session"
	"github.com/Astemirdum/local-library/catalog/migrations"
	"github.com/Astemirdum/local-library/pkg/auth"
	"github.com/Astemirdum/local-library/pkg/kafka"
	"github.com/Astemirdum/local-library/pkg/logger"
	"github.com/Astemirdum/local-library/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "catalog")
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	sessions := session.NewStore(cfg.Session)
	defer sessions.Close() //nolint:errcheck
	if err := sessions.Ping(ctx); err != nil {
		log.Warn("redis is unreachable, visits will read 0", zap.Error(err))
	}

	events := service.NewNoopPublisher()
	if cfg.Kafka.Enable {
		producer, err := kafka.NewSyncProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewSyncProducer", zap.Error(err))
		}
		defer producer.Close() //nolint:errcheck
		events = service.NewKafkaPublisher(producer, log)
	}

	issuer := auth.NewIssuer(cfg.Auth)
	svc := service.NewService(repo, sessions, events, issuer, log)

	if cfg.Kafka.Enable {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.CatalogConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		defer consumer.Close() //nolint:errcheck
		statusHandler := handler.NewConsumer(svc.ApplyStatusUpdate, log)
		go kafka.Consume(ctx, consumer, statusHandler, log, kafka.InstanceStatusTopic)
		go logWhenReady(ctx, log, kafka.InstanceStatusTopic, statusHandler.Ready())

		statsConsumer, err := kafka.NewConsumer(cfg.Kafka, kafka.StatsConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		defer statsConsumer.Close() //nolint:errcheck
		statsHandler := handler.NewConsumer(svc.RecordEvent, log)
		go kafka.Consume(ctx, statsConsumer, statsHandler, log, kafka.CatalogEventsTopic)
		go logWhenReady(ctx, log, kafka.CatalogEventsTopic, statsHandler.Ready())
	}

	h := handler.New(svc, issuer, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	cancel()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}

// logWhenReady reports the first consumer-group session on topic.
func logWhenReady(ctx context.Context, log *zap.Logger, topic string, ready <-chan bool) {
	select {
	case <-ready:
		log.Info("kafka consumer is up", zap.String("topic", topic))
	case <-ctx.Done():
	}
}
