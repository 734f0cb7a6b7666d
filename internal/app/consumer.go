package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-payroll/internal/audit"
	"go-payroll/internal/config"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer stores audit events from Kafka in audit_logs until SIGINT/SIGTERM.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	logger = logger.Named("app.consumer")

	db, err := connection.ConnectGORMWithRetry(cfg.DB, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// Creates the topic when the consumer starts before any API instance.
	writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka, logger, cfg.Kafka.AuditTopic)
	if err != nil {
		return err
	}
	_ = writer.Close()

	reader := connection.NewKafkaReader(cfg.Kafka, cfg.Kafka.AuditTopic)
	defer reader.Close()

	auditRepo := audit.NewRepository(db.Gorm)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeAuditEvents(ctx, reader, auditRepo, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}
