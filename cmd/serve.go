package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/odata-gateway/internal/config"
	"github.com/jmehdipour/odata-gateway/internal/db"
	"github.com/jmehdipour/odata-gateway/internal/events"
	httpSrv "github.com/jmehdipour/odata-gateway/internal/http"
	"github.com/jmehdipour/odata-gateway/internal/kafka"
	"github.com/jmehdipour/odata-gateway/internal/logger"
	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/jmehdipour/odata-gateway/internal/repository"
	"github.com/jmehdipour/odata-gateway/internal/service/catalog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.Init(cfg.Log.Level)
		log := logger.Named("serve")
		defer func() { _ = logger.Log.Sync() }()

		redisClient, err := db.NewRedisClient(db.RedisOpts{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		if redisClient != nil {
			defer func() { _ = redisClient.Close() }()
		} else {
			log.Info("redis not configured, rate limiting disabled")
		}

		var publisher events.Publisher = events.NopPublisher{}
		if len(cfg.Kafka.Brokers) > 0 {
			producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
			defer func() { _ = producer.Close() }()
			publisher = events.NewKafkaPublisher(
				producer,
				events.NewBreaker(cfg.Breaker.FailThreshold, time.Duration(cfg.Breaker.OpenForMs)*time.Millisecond),
				cfg.Kafka.PublishTimeout,
				logger.Named("events"),
			)
		} else {
			log.Info("kafka not configured, change events disabled")
		}

		var customers []model.Customer
		var orders []model.Order
		if cfg.Dataset.Seed {
			customers, orders = repository.SeedCustomers(), repository.SeedOrders()
		}
		svc := catalog.New(
			repository.NewCustomersRepository(customers),
			repository.NewOrdersRepository(orders),
			publisher,
			logger.Named("catalog"),
		)

		server := httpSrv.NewServer(cfg, svc, redisClient, logger.Named("http"))

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil {
				log.Error("http server exited", zap.Error(err))
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), httpSrv.ShutdownTimeout(cfg))
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
