package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"emplystack/internal/messaging/kafka"
	"emplystack/internal/messaging/kafka/producer"
	"emplystack/internal/payroll"
	"emplystack/internal/shared/config"
	"emplystack/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays the outbox to Kafka and runs the monthly payroll job
// until SIGINT or SIGTERM.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.DBMaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	// Subscription checks fall back to the database without redis.
	core, err := buildServices(sqlDB, gormDB, nil, cfg, logger)
	if err != nil {
		return err
	}

	scheduler := payroll.NewScheduler(core.payroll, core.company, cfg.PayrollCron, logger)
	if err := scheduler.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		kafka.NewOutboxRepository(sqlDB),
		kafkaWriter,
		logger,
		cfg.OutboxPollInterval,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("worker shutting down")
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stopCancel()
	scheduler.Stop(stopCtx)

	return nil
}
