package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/odata-gateway/internal/config"
	"github.com/jmehdipour/odata-gateway/internal/db"
	"github.com/jmehdipour/odata-gateway/internal/kafka"
	"github.com/jmehdipour/odata-gateway/internal/logger"
	"github.com/jmehdipour/odata-gateway/internal/metrics"
	"github.com/jmehdipour/odata-gateway/internal/repository"
	"github.com/jmehdipour/odata-gateway/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Consume change events and write them to the audit sink",
	RunE:  runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	log := logger.Named("audit")
	defer func() { _ = logger.Log.Sync() }()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is empty")
	}

	sink, err := db.NewAuditConnection(db.AuditOpts{
		Driver:          cfg.Audit.Driver,
		DSN:             cfg.Audit.DSN,
		MaxOpenConns:    cfg.Audit.MaxOpenConns,
		MaxIdleConns:    cfg.Audit.MaxIdleConns,
		ConnMaxLifetime: cfg.Audit.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Audit.ConnMaxIdleTime,
		PingTimeout:     cfg.Audit.PingTimeout,
	})
	if err != nil {
		return fmt.Errorf("audit sink connect: %w", err)
	}
	defer sink.Close()

	auditRepo, err := repository.NewAuditRepository(sink, cfg.Audit.Table)
	if err != nil {
		return err
	}

	consumer := kafka.NewConsumerFromConfig(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topic,
		GroupID:        cfg.Kafka.GroupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	defer consumer.Close()

	w := worker.NewAuditWriter(consumer, auditRepo, log)
	if cfg.Audit.BatchSize > 0 {
		w.BatchSize = cfg.Audit.BatchSize
	}
	if cfg.Audit.BatchWait > 0 {
		w.BatchWait = cfg.Audit.BatchWait
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("audit worker started",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.GroupID),
		zap.String("driver", cfg.Audit.Driver),
		zap.Int("batch_size", w.BatchSize),
		zap.Duration("batch_wait", w.BatchWait),
	)

	return w.Run(ctx)
}
