package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"emplystack/internal/events"
	"emplystack/internal/messaging/kafka/consumer"
	"emplystack/internal/shared/config"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const consumerGroupPrefix = "emplystack-"

func newReader(broker, topic, group string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        consumerGroupPrefix + group,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}

// RunConsumer assigns default roles to new employees and renders payslips
// for paid payrolls until SIGINT or SIGTERM.
func RunConsumer(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, sqlDB, err := connectDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	core, err := buildServices(sqlDB, gormDB, nil, cfg, logger)
	if err != nil {
		return err
	}

	lifecycleReader := newReader(cfg.KafkaBroker, events.EmployeeCreatedTopic, "employee-roles")
	defer lifecycleReader.Close()

	payslipReader := newReader(cfg.KafkaBroker, events.PayrollPayslipRequestedTopic, "payroll-payslips")
	defer payslipReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeEmployeeLifecycle(ctx, lifecycleReader, core.rbac, logger)
	go consumer.ConsumePayrollPayslipRequested(ctx, payslipReader, core.payroll, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("consumer shutting down")
	cancel()

	return nil
}
